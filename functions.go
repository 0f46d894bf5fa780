package tablegate

import "strings"

// sanitizeIdent allows only letters, digits and underscore.
// Identifiers arrive from the URL path and from record keys; anything else is
// rejected before it can reach an identifier position in SQL.
func sanitizeIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			continue
		}
		return false
	}
	return true
}

// normalizeDriver normalizes common driver aliases to canonical names.
func normalizeDriver(d string) string {
	switch strings.ToLower(d) {
	case "pg", "postgresql":
		return "postgres"
	case "mariadb":
		return "mysql"
	case "sqlite3", "file":
		return "sqlite"
	case "mssql":
		return "sqlserver"
	default:
		return strings.ToLower(d)
	}
}

// quoteIdent safely quotes an identifier for the given driver.
// It assumes the identifier has already passed sanitizeIdent.
func quoteIdent(driver, ident string) string {
	switch normalizeDriver(driver) {
	case "postgres":
		return "\"" + strings.ReplaceAll(ident, "\"", "\"\"") + "\""
	case "mysql", "sqlite":
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	case "sqlserver":
		return "[" + strings.ReplaceAll(ident, "]", "]]") + "]"
	default:
		return ident
	}
}
