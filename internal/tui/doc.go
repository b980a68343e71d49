// Package tui implements the interactive race board: a bubbletea program that
// follows one race at a time, showing each task's lane, the event log, and
// process and host resource usage. Races are started through a RaceStarter,
// so the board never builds orchestration objects itself.
package tui
