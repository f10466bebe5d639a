package entity

// Re-export common types from the common package.

import (
	"labsite/internal/entity/common"
)

// Type aliases for common types
type StringArray = common.StringArray
type Meta = common.Meta
type BaseParams = common.BaseParams

// PageWindow re-exports common.PageWindow.
func PageWindow(page, pageSize, total int64) (offset, limit int64, meta Meta) {
	return common.PageWindow(page, pageSize, total)
}
