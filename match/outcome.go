package match

// Kind classifies how a row was resolved. Expected conditions are values
// here, never errors: only the side-effecting rename can produce KindError.
type Kind int

const (
	KindRenamed Kind = iota
	KindUnchanged
	KindNotFound
	KindConflict
	KindError
	KindAligned
	KindWarning
)

func (k Kind) String() string {
	switch k {
	case KindRenamed:
		return "renamed"
	case KindUnchanged:
		return "unchanged"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindError:
		return "error"
	case KindAligned:
		return "aligned"
	case KindWarning:
		return "warning"
	}
	return "unknown"
}
