package tui

import "notry/internal/tui/messages"

// Re-export types from messages package for convenience
type Mode = messages.Mode

const (
	ModeSearch = messages.ModeSearch
	ModeEdit   = messages.ModeEdit
	ModeBrowse = messages.ModeBrowse
	ModeImport = messages.ModeImport
)

type StatusMsg = messages.StatusMsg
type OpenNoteMsg = messages.OpenNoteMsg
type CreateNoteMsg = messages.CreateNoteMsg
type BrowseRequestMsg = messages.BrowseRequestMsg
type CloseViewMsg = messages.CloseViewMsg
type SaveNoteMsg = messages.SaveNoteMsg
type DiscardRequestMsg = messages.DiscardRequestMsg
type ImportConfirmMsg = messages.ImportConfirmMsg
type ImportCancelMsg = messages.ImportCancelMsg
type QuitMsg = messages.QuitMsg
type ShowHelpMsg = messages.ShowHelpMsg
