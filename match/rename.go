package match

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Result records how one row was resolved against the candidate pool.
type Result struct {
	Row     Row
	Kind    Kind
	OldPath string
	NewPath string
	Reason  string
}

var (
	unsafeChars       = regexp.MustCompile(`[^\p{L}\p{N}_.-]`)
	repeatUnderscores = regexp.MustCompile(`_+`)
	simpleExt         = regexp.MustCompile(`^\.[A-Za-z0-9]{1,8}$`)
)

// SanitizeName turns free text into a safe file name stem: spaces become
// underscores, characters the filesystem dislikes become underscores,
// repeats collapse, separators are trimmed off the ends.
func SanitizeName(name string) string {
	v := strings.TrimSpace(name)
	v = strings.ReplaceAll(v, " ", "_")
	v = unsafeChars.ReplaceAllString(v, "_")
	v = repeatUnderscores.ReplaceAllString(v, "_")
	return strings.Trim(v, "._")
}

// TargetName computes the final file name for a row's label. A blank label
// falls back to the source file's own stem; the source extension is kept
// unless the label carries one of its own. An empty sanitized result falls
// back to the source stem and then to a generic placeholder.
func TargetName(label, sourcePath string) string {
	sourceExt := filepath.Ext(sourcePath)
	sourceStem := stem(filepath.Base(sourcePath))

	candidate := strings.TrimSpace(label)
	if candidate == "" {
		base := SanitizeName(sourceStem)
		if base == "" {
			base = "file"
		}
		return base + sourceExt
	}

	ext := filepath.Ext(candidate)
	stemPart := candidate
	if simpleExt.MatchString(ext) {
		stemPart = strings.TrimSuffix(candidate, ext)
	} else {
		ext = sourceExt
	}

	safe := SanitizeName(stemPart)
	if safe == "" {
		safe = SanitizeName(sourceStem)
	}
	if safe == "" {
		safe = "file"
	}
	return safe + ext
}

// ResolveRenames walks rows in table order, claiming at most one file per
// row from the registry and renaming it in place. Earlier rows win any
// contested key; that is deliberate, the table order reflects human-curated
// priority. Every row that cannot be cleanly renamed returns its candidate
// to the registry so a later row may still claim it.
func ResolveRenames(rows []Row, reg *Registry, minScore int) []Result {
	results := make([]Result, 0, len(rows))

	for _, row := range rows {
		source, ok := reg.Take(row.Key, minScore)
		if !ok {
			key := row.Key
			if key == "" {
				key = "<unknown>"
			}
			results = append(results, Result{
				Row:    row,
				Kind:   KindNotFound,
				Reason: fmt.Sprintf("no file matched '%s'", key),
			})
			continue
		}

		targetName := TargetName(row.Target, source)
		targetPath := filepath.Join(filepath.Dir(source), targetName)

		if targetPath == source {
			reg.Add(source)
			results = append(results, Result{
				Row:     row,
				Kind:    KindUnchanged,
				OldPath: source,
				NewPath: source,
				Reason:  "name already matches",
			})
			continue
		}

		if _, err := os.Stat(targetPath); err == nil {
			reg.Add(source)
			results = append(results, Result{
				Row:     row,
				Kind:    KindConflict,
				OldPath: source,
				Reason:  fmt.Sprintf("'%s' already exists", targetName),
			})
			continue
		}

		if err := os.Rename(source, targetPath); err != nil {
			reg.Add(source)
			results = append(results, Result{
				Row:     row,
				Kind:    KindError,
				OldPath: source,
				Reason:  fmt.Sprintf("rename to '%s' failed: %v", targetName, err),
			})
			continue
		}

		reg.Add(targetPath)
		results = append(results, Result{
			Row:     row,
			Kind:    KindRenamed,
			OldPath: source,
			NewPath: targetPath,
		})
	}

	return results
}
