package helper

import (
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// GenerateUniqueSlug slugifies title and appends -1, -2, ... until no row of
// table has it. excludeID skips the row being updated.
func GenerateUniqueSlug(tx *gorm.DB, table, title string, excludeID uint) string {
	base := slug.Make(title)
	if base == "" {
		base = "item"
	}
	result := base
	i := 1

	for {
		var count int64
		q := tx.Table(table).Where("slug = ?", result)
		if excludeID != 0 {
			q = q.Where("id <> ?", excludeID)
		}
		q.Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}
