package temporal

import (
	"time"

	"github.com/Masterminds/squirrel"
)

// Колонки метаданных версии, одинаковые во всех темпоральных таблицах
const (
	ColumnVersion   = "version"
	ColumnValidFrom = "valid_from"
	ColumnValidTo   = "valid_to"
	ColumnIsCurrent = "is_current"
)

// VersionColumns колонки метаданных версии в порядке сканирования
var VersionColumns = []string{ColumnVersion, ColumnValidFrom, ColumnValidTo, ColumnIsCurrent}

// Current условие выборки текущей версии
func Current() squirrel.Sqlizer {
	return squirrel.Eq{ColumnIsCurrent: true}
}

// AsOf условие выборки версии, действовавшей в момент t: valid_from <= t < valid_to (или valid_to IS NULL)
func AsOf(t time.Time) squirrel.Sqlizer {
	return squirrel.And{
		squirrel.LtOrEq{ColumnValidFrom: t},
		squirrel.Or{
			squirrel.Eq{ColumnValidTo: nil},
			squirrel.Gt{ColumnValidTo: t},
		},
	}
}

// CloseVersion обновление, закрывающее версию prevVersion бизнес-ключа в момент at
// Затрагивает строку только если она все еще текущая; 0 затронутых строк означает конфликт версий
func CloseVersion(builder squirrel.UpdateBuilder, keyColumn, key string, prevVersion int, at time.Time) squirrel.UpdateBuilder {
	return builder.
		Set(ColumnValidTo, at).
		Set(ColumnIsCurrent, false).
		Where(squirrel.Eq{
			keyColumn:       key,
			ColumnVersion:   prevVersion,
			ColumnIsCurrent: true,
		})
}
