package schema

import (
	"regexp"
)

// Compiled once; the DDL parser runs them for every statement.
var (
	tableRegex      = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?(?:"(\w+)"|` + "`" + `(\w+)` + "`" + `|(\w+))\s*\(`)
	fkRegex         = regexp.MustCompile(`(?i)FOREIGN\s+KEY\s*\(\s*["` + "`" + `]?(\w+)["` + "`" + `]?\s*\)\s*REFERENCES\s+["` + "`" + `]?(\w+)["` + "`" + `]?\s*\(\s*["` + "`" + `]?(\w+)["` + "`" + `]?\s*\)`)
	referencesRegex = regexp.MustCompile(`(?i)REFERENCES\s+["` + "`" + `]?(\w+)["` + "`" + `]?\s*\(\s*["` + "`" + `]?(\w+)["` + "`" + `]?\s*\)`)
	constraintRegex = regexp.MustCompile(`(?i)^(PRIMARY\s+KEY|FOREIGN\s+KEY|UNIQUE|CHECK|CONSTRAINT|INDEX|KEY)\b`)
	pkListRegex     = regexp.MustCompile(`(?i)^(?:CONSTRAINT\s+\S+\s+)?PRIMARY\s+KEY\s*\(\s*([^)]+)\)`)
	defaultRegex    = regexp.MustCompile(`(?i)\bDEFAULT\s+('[^']*'|\([^)]*\)|[^,\s]+)`)

	createTableStmtRegex = regexp.MustCompile(`(?i)^\s*CREATE\s+TABLE`)

	commentRegex    = regexp.MustCompile(`--.*|/\*[\s\S]*?\*/`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)
