package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList хранит список строк в одной JSONB-колонке
type StringList []string

// Value реализует driver.Valuer для сохранения в PostgreSQL
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan реализует sql.Scanner
func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}
