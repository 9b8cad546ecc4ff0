// Package process stops external helper processes, such as the headless
// browser used for PDF export, together with their children.
package process
