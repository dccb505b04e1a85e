package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/nexidian/gocliselect"
)

// Prompter asks the operator a blocking yes/no question.
type Prompter interface {
	Confirm(question string) bool
}

type PrompterFunc func(question string) bool

func (f PrompterFunc) Confirm(question string) bool {
	return f(question)
}

type menuItem struct {
	Label string
	ID    any
}

// menuFunc shows a menu and returns the ID of the picked item. A non-empty
// skip adds a last entry that returns nil.
type menuFunc func(title string, items []menuItem, skip string) (any, error)

func displayMenu(title string, items []menuItem, skip string) (any, error) {
	menu := gocliselect.NewMenu(title)
	for _, item := range items {
		menu.AddItem(item.Label, item.ID)
	}
	if skip != "" {
		menu.EnableSkip(skip)
	}
	return menu.Display()
}

// menuPrompter shows the question as an arrow-key menu. "No" comes first so
// a stray Enter never confirms.
type menuPrompter struct {
	menu menuFunc
}

func (p menuPrompter) Confirm(question string) bool {
	choice, err := p.menu(question, []menuItem{
		{Label: "No", ID: "no"},
		{Label: "Yes, confirm", ID: "yes"},
	}, "")
	if err != nil {
		return false
	}
	return choice == "yes"
}

// answers every question with yes, for --yes
type autoPrompter struct{}

func (autoPrompter) Confirm(string) bool {
	return true
}

const (
	menuSearch    = "search"
	menuToggleRow = "toggle"
	menuToggleAll = "toggle-all"
	menuConfirm   = "confirm"
	menuClear     = "clear"
	menuQuit      = "quit"
)

// chooseAction returns one of the menu* actions; anything unexpected quits.
func chooseAction(show menuFunc, s Snapshot) string {
	title := "What next?"
	if s.Session.Identity != "" {
		title = fmt.Sprintf("%s - %d pending, %d selected", s.Session.Identity, len(s.Session.Records), s.Selected)
	}

	items := []menuItem{{Label: "Search identity", ID: menuSearch}}
	if len(s.Session.Records) > 0 {
		items = append(items,
			menuItem{Label: "Toggle a record", ID: menuToggleRow},
			menuItem{Label: "Toggle all records", ID: menuToggleAll},
		)
	}
	if s.Trigger.Enabled {
		items = append(items, menuItem{Label: s.Trigger.Label, ID: menuConfirm})
	}
	items = append(items,
		menuItem{Label: "Clear", ID: menuClear},
		menuItem{Label: "Quit", ID: menuQuit},
	)

	choice, err := show(title, items, "")
	if err != nil {
		return menuQuit
	}
	action, ok := choice.(string)
	if !ok || action == "" {
		return menuQuit
	}
	return action
}

// chooseRow returns the position of the picked record, -1 when none.
func chooseRow(show menuFunc, s Snapshot) int {
	items := make([]menuItem, 0, len(s.Session.Records))
	for i, r := range s.Session.Records {
		mark := "[ ]"
		if i < len(s.Checked) && s.Checked[i] {
			mark = "[x]"
		}
		label := fmt.Sprintf("%s %s  %s  %sh  %s", mark, FormatDate(r.Date), orDash(r.Shift), r.TotalHours, orDash(r.Reviewer))
		items = append(items, menuItem{Label: label, ID: i})
	}

	choice, err := show("Toggle which record?", items, "Back")
	if err != nil {
		return -1
	}
	if i, ok := choice.(int); ok {
		return i
	}
	return -1
}

func readLine(r *bufio.Reader, w io.Writer, prompt string) string {
	fmt.Fprint(w, prompt)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
