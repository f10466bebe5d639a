package common

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringArray 以 JSON 文本格式存储字符串切片。
//
// The column stays plain text so the same schema works on sqlite, mysql and
// postgres; callers only ever see a Go slice.
type StringArray []string

// Value 实现 driver.Valuer 接口。
func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan 实现 sql.Scanner 接口。
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*a = StringArray{}
			return nil
		}
		return json.Unmarshal(v, (*[]string)(a))
	case string:
		if v == "" {
			*a = StringArray{}
			return nil
		}
		return json.Unmarshal([]byte(v), (*[]string)(a))
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
}

// MarshalJSON never emits null: an absent array is an empty one.
func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

// ToSlice 返回底层切片的副本。
func (a StringArray) ToSlice() []string {
	if len(a) == 0 {
		return []string{}
	}
	out := make([]string, len(a))
	copy(out, a)
	return out
}

// Contains 检查数组是否包含给定的字符串（忽略大小写）。
func (a StringArray) Contains(s string) bool {
	for _, v := range a {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

// Normalize trims entries and drops empty ones. A nil array becomes empty.
func (a StringArray) Normalize() StringArray {
	out := make(StringArray, 0, len(a))
	for _, v := range a {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Meta 包含分页元数据。
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// PageWindow resolves 1-based paging against total rows. Page and pageSize
// default to 1 and 20; a page past the end yields limit 0.
func PageWindow(page, pageSize, total int64) (offset, limit int64, meta Meta) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	meta = Meta{Page: page, PageSize: pageSize, Total: total}
	// 先和最后一页比较，避免 (page-1)*pageSize 溢出
	if total <= 0 || page-1 > (total-1)/pageSize {
		return 0, 0, meta
	}
	offset = (page - 1) * pageSize
	limit = pageSize
	if limit > total-offset {
		limit = total - offset
	}
	return offset, limit, meta
}

// BaseParams 包含通用的分页参数。
type BaseParams struct {
	PageSize int64 `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64 `json:"page" form:"page" query:"page"`
}
