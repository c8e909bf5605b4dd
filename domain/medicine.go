package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// LegacyMedicineSeparator joined medicine names in rows written before the
// JSON encoding. Splitting on it is lossy when a name contains the separator.
const LegacyMedicineSeparator = ", "

// MedicineList is the ordered, duplicate-preserving list of medicine names
// attached to a customer. It is stored as a JSON array in a TEXT column.
type MedicineList []string

// Value implements driver.Valuer.
func (m MedicineList) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	raw, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Scan implements sql.Scanner. Rows that do not hold a valid JSON array,
// including legacy rows whose first name starts with "[", are decoded with
// the legacy separator.
func (m *MedicineList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*m = MedicineList{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("medicine list: unsupported type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*m = MedicineList{}
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var names []string
		if err := json.Unmarshal([]byte(raw), &names); err == nil {
			if names == nil {
				names = []string{}
			}
			*m = names
			return nil
		}
	}
	*m = strings.Split(raw, LegacyMedicineSeparator)
	return nil
}

// String renders the list the way the original form displayed it.
func (m MedicineList) String() string {
	return strings.Join(m, LegacyMedicineSeparator)
}
