package users

import (
	"encoding/json"
	"fmt"
	"strings"
)

const columns = `id, username, email, password_hash, roles, permissions, is_active, last_login_at, created_at, updated_at`

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw []byte) ([]string, error) {
	list := []string{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return list, nil
}

// QualifiedColumns returns the user column list prefixed with a table alias,
// for joins that feed ScanSQLiteRow or ScanPostgresRow.
func QualifiedColumns(alias string) string {
	parts := strings.Split(columns, ", ")
	for i, p := range parts {
		parts[i] = alias + "." + p
	}
	return strings.Join(parts, ", ")
}
