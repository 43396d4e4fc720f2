package repository

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrInvalidSort 排序参数不合法
var ErrInvalidSort = errors.New("invalid sort")

// Direction 排序方向
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection 解析排序方向，空字符串视为升序
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "", string(Asc):
		return Asc, nil
	case string(Desc):
		return Desc, nil
	default:
		return "", fmt.Errorf("%w: 不支持的排序方向 %q", ErrInvalidSort, s)
	}
}

// Order 单个排序条件
type Order struct {
	Property  string
	Direction Direction
}

// Sort 排序条件，按顺序生效
type Sort struct {
	Orders []Order
}

// Unsorted 不指定排序，结果顺序由数据库决定
func Unsorted() *Sort {
	return &Sort{}
}

// By 按同一方向对多个字段排序
func By(direction Direction, properties ...string) *Sort {
	s := &Sort{Orders: make([]Order, 0, len(properties))}
	for _, p := range properties {
		s.Orders = append(s.Orders, Order{Property: p, Direction: direction})
	}
	return s
}

// And 追加排序条件
func (s *Sort) And(other *Sort) *Sort {
	orders := make([]Order, 0, len(s.Orders)+len(other.Orders))
	orders = append(orders, s.Orders...)
	orders = append(orders, other.Orders...)
	return &Sort{Orders: orders}
}

// apply 把排序条件应用到查询上，columns 是允许排序的字段到列名的映射
func (s *Sort) apply(db *gorm.DB, columns map[string]string) (*gorm.DB, error) {
	if s == nil {
		return db, nil
	}
	for _, o := range s.Orders {
		column, ok := columns[o.Property]
		if !ok {
			return nil, fmt.Errorf("%w: 不支持的排序字段 %q", ErrInvalidSort, o.Property)
		}
		direction, err := ParseDirection(string(o.Direction))
		if err != nil {
			return nil, err
		}
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   direction == Desc,
		})
	}
	return db, nil
}
