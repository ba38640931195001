package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"qgate/internal/logging"
)

// Validate reads the artifact at path once and checks it against spec.
// All content checks run on that single buffer; existence is never
// re-tested after the read, so there is no window for a concurrent
// producer to change the answer between check and use.
//
// Missing and Malformed are reportable outcomes, not errors: the caller
// always gets a Result. Attempts is left at zero for the runner to fill.
func Validate(spec *Spec, unitID int, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Result{UnitID: unitID, Status: StatusMissing, Detail: "artifact not found"}
		}
		// Raw OS error text stays in the log; callers get a category.
		logging.New("artifact").Warn("artifact unreadable", "unit_id", unitID, "error", err)
		return Result{UnitID: unitID, Status: StatusMalformed, Detail: "artifact unreadable"}
	}

	var failures []string
	if len(data) < spec.MinSizeBytes {
		failures = append(failures, fmt.Sprintf("below minimum size (%d < %d bytes)", len(data), spec.MinSizeBytes))
	}
	content := string(data)
	for _, section := range spec.RequiredSections {
		if !strings.Contains(content, section) {
			failures = append(failures, fmt.Sprintf("missing required section %q", section))
		}
	}

	if len(failures) > 0 {
		return Result{UnitID: unitID, Status: StatusMalformed, Detail: strings.Join(failures, "; ")}
	}
	return Result{UnitID: unitID, Status: StatusValid}
}
