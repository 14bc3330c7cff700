package source

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joshuapare/segalloc/sizemap"
)

// DefaultSizeClassesEnv is the variable read by Env when no name is given.
const DefaultSizeClassesEnv = "SEGALLOC_SIZE_CLASSES"

// Env returns an OverrideSource reading name from the environment.
//
// The value lists classes as "size,pages,num_to_move" separated by ';'.
// Class 0 is implied. Missing trailing fields are zero:
//
//	SEGALLOC_SIZE_CLASSES="8,1,32;16,1,32;32,1,16"
func Env(name string) sizemap.OverrideSource {
	if name == "" {
		name = DefaultSizeClassesEnv
	}
	return sizemap.OverrideFunc(func() ([]sizemap.Info, error) {
		val, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(val) == "" {
			return nil, sizemap.ErrNoOverride
		}
		infos, err := ParseSizeClasses(val)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return infos, nil
	})
}

// ParseSizeClasses decodes the "size,pages,num_to_move;..." text form.
// The result starts with the reserved class 0.
func ParseSizeClasses(text string) ([]sizemap.Info, error) {
	infos := []sizemap.Info{{}}

	for i, entry := range strings.Split(strings.TrimSpace(text), ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			// Allow a trailing separator
			continue
		}

		fields := strings.Split(entry, ",")
		if len(fields) > 3 {
			return nil, fmt.Errorf("class %d: %d fields, want at most 3", i+1, len(fields))
		}

		var vals [3]int
		for j, f := range fields {
			v, err := strconv.Atoi(strings.TrimSpace(f))
			if err != nil {
				return nil, fmt.Errorf("class %d field %d: %w", i+1, j, err)
			}
			if v < 0 {
				return nil, fmt.Errorf("class %d field %d: negative value %d", i+1, j, v)
			}
			vals[j] = v
		}

		infos = append(infos, sizemap.Info{Size: vals[0], Pages: vals[1], NumToMove: vals[2]})
	}

	return infos, nil
}

// FormatSizeClasses renders infos (class 0 skipped) in the text form read by Env.
func FormatSizeClasses(infos []sizemap.Info) string {
	var sb strings.Builder
	for i, info := range infos {
		if i == 0 {
			continue
		}
		if i > 1 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%d,%d,%d", info.Size, info.Pages, info.NumToMove)
	}
	return sb.String()
}
