package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type promptStep int

const (
	stepFolder promptStep = iota
	stepDestination
	stepConfirmed
	stepAborted
)

type folderChosenMsg string

type destinationChosenMsg string

// PromptModel asks for the source folder and then the destination file.
type PromptModel struct {
	step   promptStep
	input  string
	folder string
	dest   string
	err    string
}

func NewPrompt() PromptModel {
	return PromptModel{}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case folderChosenMsg:
		m.folder = string(msg)
		m.step = stepDestination
		m.input = DefaultDestination(m.folder)
		return m, nil
	case destinationChosenMsg:
		m.dest = string(msg)
		m.step = stepConfirmed
		return m, tea.Quit
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PromptModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.step = stepAborted
		return m, tea.Quit
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	case tea.KeyEnter:
		return m.submit()
	}
	return m, nil
}

func (m PromptModel) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input)
	m.err = ""

	switch m.step {
	case stepFolder:
		folder, err := ValidateFolder(value)
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		return m, func() tea.Msg { return folderChosenMsg(folder) }
	case stepDestination:
		if value == "" {
			m.err = "destination is required"
			return m, nil
		}
		dest := EnsurePDFExt(value)
		return m, func() tea.Msg { return destinationChosenMsg(dest) }
	}
	return m, nil
}

// Selection returns the chosen folder and destination. ok is false when the
// prompt was aborted.
func (m PromptModel) Selection() (folder, dest string, ok bool) {
	return m.folder, m.dest, m.step == stepConfirmed
}

func (m PromptModel) View() string {
	if m.step == stepConfirmed || m.step == stepAborted {
		return ""
	}

	label := "Folder to convert:"
	if m.step == stepDestination {
		label = "Save PDF as:"
	}

	lines := []string{
		titleStyle.Render("folder2pdf"),
		dimStyle.Render("Every image, text file and office document in the folder is merged into one PDF."),
		"",
	}
	if m.folder != "" {
		lines = append(lines, dimStyle.Render("Selected: "+m.folder))
	}
	lines = append(lines, labelStyle.Render(label)+" "+inputStyle.Render(m.input)+accentStyle.Render("_"))
	if m.err != "" {
		lines = append(lines, errorStyle.Render(m.err))
	}
	lines = append(lines, dimStyle.Render("enter: confirm  esc: cancel"))
	return strings.Join(lines, "\n")
}

// ValidateFolder resolves path and checks that it is a directory.
func ValidateFolder(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("folder is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a folder", abs)
	}
	return abs, nil
}

// DefaultDestination names the PDF after the folder and places it beside it.
func DefaultDestination(folder string) string {
	clean := filepath.Clean(folder)
	return filepath.Join(filepath.Dir(clean), filepath.Base(clean)+".pdf")
}

// EnsurePDFExt appends ".pdf" unless path already ends with it.
func EnsurePDFExt(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return path
	}
	return path + ".pdf"
}

var (
	inputStyle = lipgloss.NewStyle().Foreground(ColorInk)
	errorStyle = lipgloss.NewStyle().Foreground(ColorError)
)
