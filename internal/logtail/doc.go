// Package logtail reads the tail of reel's log file and renders it for the
// log pane.
//
// Read keeps a ring buffer of the last maxLines lines, so memory stays
// proportional to the pane rather than the file. Parse understands both
// logrus formatters (logfmt-style text and JSON) and Colorize styles the
// time, level, message and fields with a lipgloss Palette. Lines that are
// not logrus output, such as a panic trace, are shown unstyled.
//
// A missing log file is not an error; it yields no lines.
package logtail
