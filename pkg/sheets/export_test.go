package sheets

// SetMaxWorkbookBytes lowers the download cap for a test and returns a restore func.
func SetMaxWorkbookBytes(n int64) func() {
	prev := maxWorkbookBytes
	maxWorkbookBytes = n
	return func() { maxWorkbookBytes = prev }
}
