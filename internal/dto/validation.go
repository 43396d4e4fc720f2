package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// 校验规则对应的提示
var validationMessages = map[string]string{
	"required": "不能为空",
	"min":      "不能小于%v",
	"max":      "不能大于%v",
	"oneof":    "必须是[%v]中的一个",
}

// 请求字段的中文名
var fieldNames = map[string]string{
	"TagIDs":  "标签ID列表",
	"PostIDs": "文章ID列表",
	"OrderBy": "排序字段",
	"Order":   "排序方向",
	"Name":    "标签名",
	"Size":    "数量",
}

// FormatBindError 把请求绑定错误转换成可读的提示，只返回第一个错误
func FormatBindError(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		return formatFieldError(validationErrs[0])
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return "请求体格式错误"
	}
	return "参数错误"
}

func formatFieldError(fe validator.FieldError) string {
	field := fieldNames[fe.StructField()]
	if field == "" {
		field = fe.Field()
	}

	template, ok := validationMessages[fe.Tag()]
	if !ok {
		return field + "校验失败"
	}
	if fe.Param() != "" {
		return field + fmt.Sprintf(template, fe.Param())
	}
	return field + template
}
