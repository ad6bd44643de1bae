package match

// Row is one unit of work from the source table. Key is the free text used
// to find a candidate (an old or displayed title); Target is the desired
// final name. Rows are immutable once read.
type Row struct {
	Number int
	Target string
	Key    string
}
