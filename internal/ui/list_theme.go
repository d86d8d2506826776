package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/actionrun/internal/catalog"
	"github.com/unkn0wn-root/actionrun/internal/theme"
)

type actionItem struct {
	action catalog.Action
}

func (i actionItem) Title() string { return i.action.Name }

func (i actionItem) Description() string {
	if i.action.Description != "" {
		return i.action.EffectiveMethod() + " " + i.action.Description
	}
	return i.action.EffectiveMethod() + " " + i.action.URL
}

func (i actionItem) FilterValue() string { return i.action.Name }

func actionItems(cat *catalog.Catalog) []list.Item {
	actions := cat.Actions()
	items := make([]list.Item, 0, len(actions))
	for _, a := range actions {
		items = append(items, actionItem{action: a})
	}
	return items
}

func listItemStylesForTheme(th theme.Theme) list.DefaultItemStyles {
	styles := list.NewDefaultItemStyles()
	styles.NormalTitle = mergeListStyle(styles.NormalTitle, th.ListItemTitle)
	styles.NormalDesc = mergeListStyle(styles.NormalDesc, th.ListItemDescription)
	styles.SelectedTitle = mergeListStyle(styles.SelectedTitle, th.ListItemSelectedTitle)
	styles.SelectedDesc = mergeListStyle(styles.SelectedDesc, th.ListItemSelectedDesc)
	return styles
}

func mergeListStyle(base, override lipgloss.Style) lipgloss.Style {
	merged := override.Inherit(base)
	pt, pr, pb, pl := base.GetPadding()
	merged = merged.Padding(pt, pr, pb, pl)
	mt, mr, mb, ml := base.GetMargin()
	merged = merged.Margin(mt, mr, mb, ml)
	return merged
}

func newPicker(th theme.Theme, cat *catalog.Catalog) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles = listItemStylesForTheme(th)

	picker := list.New(actionItems(cat), delegate, 0, 0)
	picker.Title = "select an action"
	picker.Styles.Title = th.PaneTitle
	picker.SetShowStatusBar(false)
	picker.SetShowHelp(false)
	picker.SetFilteringEnabled(false)
	picker.KeyMap.Quit.SetEnabled(false)
	picker.KeyMap.ForceQuit.SetEnabled(false)
	return picker
}
