// Package messages defines the interaction modes and the message types
// exchanged between the root model and its child views.
package messages

// Mode identifies which view owns the keyboard. Exactly one handler in the
// root model runs per mode; there is no ambient mode flag anywhere else.
type Mode int

const (
	ModeSearch Mode = iota
	ModeEdit
	ModeBrowse
	ModeImport
)

func (m Mode) String() string {
	switch m {
	case ModeSearch:
		return "SEARCH"
	case ModeEdit:
		return "EDIT"
	case ModeBrowse:
		return "BROWSE"
	case ModeImport:
		return "IMPORT"
	}
	return "?"
}

// StatusMsg sets the inline status message on the status bar.
type StatusMsg struct {
	Text string
}

// OpenNoteMsg asks the root model to open a note in the editor.
type OpenNoteMsg struct {
	ID int64
}

// CreateNoteMsg asks the root model to create a note with the given title
// and open it in the editor.
type CreateNoteMsg struct {
	Title string
}

// BrowseRequestMsg asks the root model to enter browse mode.
type BrowseRequestMsg struct{}

// CloseViewMsg is sent by a child view returning control to search mode.
type CloseViewMsg struct{}

// SaveNoteMsg carries an edited note back to the root model for persisting.
type SaveNoteMsg struct {
	ID    int64
	Title string
	Body  string
}

// DiscardRequestMsg is sent by the editor when Esc is pressed with unsaved
// changes; the root model prompts for confirmation.
type DiscardRequestMsg struct{}

// ImportConfirmMsg carries the files chosen in the import dialog.
type ImportConfirmMsg struct {
	Paths []string
}

// ImportCancelMsg is sent when the import dialog is dismissed.
type ImportCancelMsg struct{}

// QuitMsg asks the root model to quit the application.
type QuitMsg struct{}

// ShowHelpMsg asks the root model to display the shortcut overlay.
type ShowHelpMsg struct{}
