// Package logtail reads the end of the movieflix log file.
//
// The logger built by internal/logging writes one JSON object per line. Read
// scans the file once with a ring buffer of maxLines entries, so memory stays
// O(maxLines) regardless of file size, and returns entries oldest first:
//
//	entries, err := logtail.Read(cfg.LogFile, 50, zapcore.WarnLevel)
//	for _, e := range entries {
//		fmt.Println(e.Format())
//	}
//
// Lines that are not JSON (for example a panic trace) are kept verbatim at
// info level.
package logtail
