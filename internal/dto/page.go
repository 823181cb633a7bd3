package dto

import "github.com/aretw0/bitty"

// Page is the decoded form of a page document.
// It uses "mapstructure" tags to match the YAML keys.
type Page struct {
	Name      string       `json:"name" mapstructure:"name"`
	Listeners []string     `json:"listeners" mapstructure:"listeners"`
	Nodes     []Node       `json:"nodes" mapstructure:"nodes"`
	Script    []bitty.Step `json:"script" mapstructure:"script"`
}

// Node describes one element and its subtree. HTML, when set, is parsed as
// markup and appended after Children.
type Node struct {
	Tag      string            `json:"tag" mapstructure:"tag"`
	ID       string            `json:"id" mapstructure:"id"`
	Text     string            `json:"text" mapstructure:"text"`
	Data     map[string]string `json:"data" mapstructure:"data"`
	Attrs    map[string]string `json:"attrs" mapstructure:"attrs"`
	Children []Node            `json:"children" mapstructure:"children"`
	HTML     string            `json:"html" mapstructure:"html"`
}
