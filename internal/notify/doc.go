// Package notify delivers one-way success and error notifications to the
// operator. Terminal renders styled lines with lipgloss, Log writes them
// through zap, and Recorder captures them for tests.
package notify
