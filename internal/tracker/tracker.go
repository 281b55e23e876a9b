// Package tracker is a terminal editor for sound effect slots and music
// patterns, driven by the same engine as the sprite editor.
package tracker

import (
	"fmt"
	"strconv"
	"strings"

	"cartedit/internal/codec"
	"cartedit/internal/engine"
	"cartedit/internal/history"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Mode selects which region the tracker edits.
type Mode int

const (
	ModeSFX Mode = iota
	ModePatterns
)

func (m Mode) String() string {
	if m == ModePatterns {
		return "patterns"
	}
	return "sfx"
}

// Model is the bubbletea model of the tracker.
type Model struct {
	eng  *engine.Engine
	mode Mode

	slot  int
	note  int
	field codec.Field

	pattern int
	channel int

	width, height int
	status        string
	onSave        func() error
}

// New returns a tracker over eng. onSave runs on ctrl+s and may be nil.
func New(eng *engine.Engine, onSave func() error) Model {
	return Model{eng: eng, onSave: onSave}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Mode returns the active editing mode.
func (m Model) Mode() Mode { return m.mode }

// Cursor returns the selected slot, note and field.
func (m Model) Cursor() (slot, note int, field codec.Field) { return m.slot, m.note, m.field }

// PatternCursor returns the selected pattern and channel.
func (m Model) PatternCursor() (pattern, channel int) { return m.pattern, m.channel }

// Status returns the last status message.
func (m Model) Status() string { return m.status }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		key := msg.String()
		switch key {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			if m.mode == ModeSFX {
				m.mode = ModePatterns
			} else {
				m.mode = ModeSFX
			}
			m.status = ""
			return m, nil
		case "u", "ctrl+z":
			if !m.eng.Undo(m.domain()) {
				m.status = "nothing to undo"
			} else {
				m.status = "undo"
			}
			return m, nil
		case "ctrl+r", "ctrl+y":
			if !m.eng.Redo(m.domain()) {
				m.status = "nothing to redo"
			} else {
				m.status = "redo"
			}
			return m, nil
		case "ctrl+s":
			m.status = "saved"
			if m.onSave == nil {
				m.status = "no file to save to"
			} else if err := m.onSave(); err != nil {
				m.status = "save: " + err.Error()
			}
			return m, nil
		}
		if m.mode == ModePatterns {
			return m.updatePatterns(key), nil
		}
		return m.updateSFX(key), nil
	}
	return m, nil
}

func (m Model) domain() history.Domain {
	if m.mode == ModePatterns {
		return history.DomainPattern
	}
	return history.DomainSound
}

func (m Model) updateSFX(key string) Model {
	switch key {
	case "up", "k":
		m.note = clamp(m.note-1, 0, codec.NotesPerSlot-1)
	case "down", "j":
		m.note = clamp(m.note+1, 0, codec.NotesPerSlot-1)
	case "left", "h":
		m.field = codec.Field(clamp(int(m.field)-1, int(codec.FieldPitch), int(codec.FieldCustom)))
	case "right", "l":
		m.field = codec.Field(clamp(int(m.field)+1, int(codec.FieldPitch), int(codec.FieldCustom)))
	case "[":
		m.slot = clamp(m.slot-1, 0, codec.SlotCount-1)
	case "]":
		m.slot = clamp(m.slot+1, 0, codec.SlotCount-1)
	case "+", "=":
		m.stepField(1)
	case "-":
		m.stepField(-1)
	case "pgup":
		m.stepField(12)
	case "pgdown":
		m.stepField(-12)
	case "x", "delete":
		m.eng.SetNote(m.slot, m.note, codec.Note{})
	case "s":
		m.stepSpeed(-1)
	case "S":
		m.stepSpeed(1)
	case "{":
		s := m.eng.Slot(m.slot)
		m.eng.SetLoop(m.slot, m.note, int(s.LoopEnd))
	case "}":
		s := m.eng.Slot(m.slot)
		m.eng.SetLoop(m.slot, int(s.LoopStart), m.note)
	case "c":
		if m.eng.CopySlot(m.slot) {
			m.status = fmt.Sprintf("copied sfx %02d", m.slot)
		}
	case "v":
		if m.eng.PasteSlot(m.slot) {
			m.status = fmt.Sprintf("pasted into sfx %02d", m.slot)
		}
	case "X":
		m.eng.ClearSlot(m.slot)
		m.status = fmt.Sprintf("cleared sfx %02d", m.slot)
	default:
		if v, err := strconv.Atoi(key); err == nil && len(key) == 1 && m.field != codec.FieldPitch {
			m.eng.SetNoteField(m.slot, m.note, m.field, clamp(v, 0, m.field.Max()))
		}
	}
	return m
}

func (m Model) stepField(delta int) {
	v := m.eng.NoteField(m.slot, m.note, m.field) + delta
	m.eng.SetNoteField(m.slot, m.note, m.field, clamp(v, 0, m.field.Max()))
}

func (m Model) stepSpeed(delta int) {
	speed := clamp(int(m.eng.Slot(m.slot).Speed)+delta, 1, 255)
	m.eng.SetSpeed(m.slot, uint8(speed))
}

func (m Model) updatePatterns(key string) Model {
	switch key {
	case "up", "k":
		m.pattern = clamp(m.pattern-1, 0, codec.PatternCount-1)
	case "down", "j":
		m.pattern = clamp(m.pattern+1, 0, codec.PatternCount-1)
	case "left", "h":
		m.channel = clamp(m.channel-1, 0, codec.ChannelCount-1)
	case "right", "l":
		m.channel = clamp(m.channel+1, 0, codec.ChannelCount-1)
	case "+", "=", "-":
		delta := 1
		if key == "-" {
			delta = -1
		}
		pat := m.eng.Pattern(m.pattern)
		sfx := clamp(int(pat.SFX[m.channel])+delta, 0, codec.SlotCount-1)
		m.eng.SetChannelSFX(m.pattern, m.channel, uint8(sfx))
	case " ", "space", "enter":
		pat := m.eng.Pattern(m.pattern)
		m.eng.SetChannelDisabled(m.pattern, m.channel, !pat.Disabled[m.channel])
	case "1", "2", "3":
		flag := codec.PatternFlag(key[0] - '1')
		pat := m.eng.Pattern(m.pattern)
		on := [...]bool{pat.LoopStart, pat.LoopEnd, pat.StopAtEnd}[flag]
		m.eng.SetPatternFlag(m.pattern, flag, !on)
	case "e":
		m.slot = int(m.eng.Pattern(m.pattern).SFX[m.channel])
		m.mode = ModeSFX
	case "c":
		if m.eng.CopyPattern(m.pattern) {
			m.status = fmt.Sprintf("copied pattern %02d", m.pattern)
		}
	case "v":
		if m.eng.PastePattern(m.pattern) {
			m.status = fmt.Sprintf("pasted into pattern %02d", m.pattern)
		}
	case "X":
		m.eng.ClearPattern(m.pattern)
		m.status = fmt.Sprintf("cleared pattern %02d", m.pattern)
	}
	return m
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ffec27"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#83769c"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5f574f"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#29adff"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	var body string
	if m.mode == ModePatterns {
		body = m.viewPatterns()
	} else {
		body = m.viewSFX()
	}
	help := dimStyle.Render("tab: mode  u/ctrl+r: undo/redo  ctrl+s: save  q: quit")
	parts := []string{titleStyle.Render("cartedit tracker · " + m.mode.String()), boxStyle.Render(body), help}
	if m.status != "" {
		parts = append(parts, statusStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

var fieldHeaders = [...]string{"note", "w", "v", "e", "c"}

func (m Model) viewSFX() string {
	s := m.eng.Slot(m.slot)
	var b strings.Builder
	fmt.Fprintf(&b, "sfx %02d  speed %3d  loop %02d-%02d\n", m.slot, s.Speed, s.LoopStart, s.LoopEnd)
	b.WriteString(headerStyle.Render("     " + strings.Join(fieldHeaders[:], "  ")))
	b.WriteString("\n")

	first, last := m.visibleRows(codec.NotesPerSlot, m.note)
	for i := first; i < last; i++ {
		n := s.Notes[i]
		cells := []string{
			PitchName(n.Pitch),
			strconv.Itoa(int(n.Waveform)),
			strconv.Itoa(int(n.Volume)),
			strconv.Itoa(int(n.Effect)),
			boolCell(n.CustomWave),
		}
		row := make([]string, len(cells))
		for f, cell := range cells {
			switch {
			case i == m.note && codec.Field(f) == m.field:
				row[f] = cursorStyle.Render(cell)
			case n.Volume == 0:
				row[f] = dimStyle.Render(cell)
			default:
				row[f] = cell
			}
		}
		marker := "  "
		if i == int(s.LoopStart) && s.LoopEnd > s.LoopStart {
			marker = "┌ "
		} else if i == int(s.LoopEnd) && s.LoopEnd > s.LoopStart {
			marker = "└ "
		}
		fmt.Fprintf(&b, "%s%02d %s\n", marker, i, strings.Join(row, "  "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewPatterns() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("pat  ch0  ch1  ch2  ch3  flags"))
	b.WriteString("\n")
	first, last := m.visibleRows(codec.PatternCount, m.pattern)
	for p := first; p < last; p++ {
		pat := m.eng.Pattern(p)
		fmt.Fprintf(&b, "%02d ", p)
		for ch := 0; ch < codec.ChannelCount; ch++ {
			cell := fmt.Sprintf(" %02d ", pat.SFX[ch])
			if pat.Disabled[ch] {
				cell = " -- "
			}
			if p == m.pattern && ch == m.channel {
				cell = cursorStyle.Render(cell)
			} else if pat.Disabled[ch] {
				cell = dimStyle.Render(cell)
			}
			b.WriteString(cell + " ")
		}
		b.WriteString(flagCells(pat))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// visibleRows returns the window of rows that fits the terminal and keeps
// the cursor in view.
func (m Model) visibleRows(total, cursor int) (int, int) {
	rows := total
	if m.height > 0 {
		rows = clamp(m.height-8, 4, total)
	}
	first := clamp(cursor-rows/2, 0, total-rows)
	return first, first + rows
}

func flagCells(p codec.Pattern) string {
	out := []byte("...")
	if p.LoopStart {
		out[0] = '['
	}
	if p.LoopEnd {
		out[1] = ']'
	}
	if p.StopAtEnd {
		out[2] = 'x'
	}
	return string(out)
}

func boolCell(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

var pitchNames = [...]string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// PitchName formats a pitch as note name and octave, e.g. "C#2".
func PitchName(p uint8) string {
	p &= 0x3f
	return pitchNames[p%12] + strconv.Itoa(int(p/12))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
