// flags.go defines constants for all CLI flag names.
//
// Using constants instead of string literals prevents typos and enables
// compile-time checking when flag names are used in both Flags().Type()
// definitions and GetType() calls.
//
// Naming convention: Flag<PascalCaseName> where name matches the kebab-case
// CLI flag (e.g., "no-colour" -> FlagNoColour).

package extension

// Flag name constants for CLI commands.
// These are used with cobra's Flags().Type() and GetType() methods.
const (
	// Boolean flags

	FlagAll      = "all"       // Include beans hidden by plugin state
	FlagLocal    = "local"     // Use local (workspace) config scope
	FlagNoColour = "no-colour" // Disable ANSI colour in diff output
	FlagStrict   = "strict"    // Treat skipped context files as failure

	// String flags

	FlagType = "type" // Catalog interface id to filter beans by
)
