package dto

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestFormatBindError(t *testing.T) {
	validate := validator.New()
	validate.SetTagName("binding")

	err := validate.Struct(TagSearchRequest{})
	assert.Equal(t, "标签名不能为空", FormatBindError(err))

	err = validate.Struct(TagWithCountListRequest{Order: "up"})
	assert.Equal(t, "排序方向必须是[asc desc]中的一个", FormatBindError(err))

	err = validate.Struct(TagSearchRequest{Name: "go", Size: 500})
	assert.Equal(t, "数量不能大于100", FormatBindError(err))

	var target []uint
	err = json.Unmarshal([]byte(`{`), &target)
	assert.Equal(t, "请求体格式错误", FormatBindError(err))

	assert.Equal(t, "参数错误", FormatBindError(errors.New("boom")))
}
