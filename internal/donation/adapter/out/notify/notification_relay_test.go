package notify

import (
	"strings"
	"testing"

	db_conn "foodshare/internal/shared/db"
)

// tableColumns извлекает имена колонок таблицы из встроенной миграции
func tableColumns(t *testing.T, table string) map[string]bool {
	t.Helper()

	sqlb, err := db_conn.MigrationsFS.ReadFile("migrations/001_init.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}

	ddl := string(sqlb)
	marker := "CREATE TABLE IF NOT EXISTS " + table + " ("
	start := strings.Index(ddl, marker)
	if start < 0 {
		t.Fatalf("table %s not found in migration", table)
	}
	body := ddl[start+len(marker):]
	end := strings.Index(body, ");")
	if end < 0 {
		t.Fatalf("table %s definition not terminated", table)
	}

	columns := map[string]bool{}
	for _, line := range strings.Split(body[:end], "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name := strings.Fields(line)[0]
		// Табличные constraint-ы, не колонки
		switch strings.ToUpper(name) {
		case "CONSTRAINT", "PRIMARY", "UNIQUE", "CHECK", "FOREIGN":
			continue
		}
		columns[name] = true
	}
	return columns
}

func TestNotificationsSchemaMatchesQueries(t *testing.T) {
	columns := tableColumns(t, "notifications")

	// Колонки, на которые опираются INSERT/SELECT/UPDATE этого пакета
	used := []string{"id", "user_id", "donation_id", "message", "read", "created_at", "read_at"}
	for _, col := range used {
		if !columns[col] {
			t.Errorf("column %q is used by notification queries but missing from notifications DDL", col)
		}
	}
}
