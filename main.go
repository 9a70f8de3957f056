// =============================================================================
// Cube Tally - Main Entry Point
// =============================================================================
//
// USAGE:
//   tally sum [files...]        - Sum the identifiers of games within limits
//   tally validate [files...]   - Check that every line is a well-formed record
//   tally calibrate [files...]  - Sum first/last digit calibration values
//   tally version               - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Parser, validator, aggregation, reports and configuration
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/cube-tally/cmd"
)

func main() {
	cmd.Execute()
}
