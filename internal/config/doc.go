// Package config loads keyward's application settings and the collection
// definition files that populate the shortcut registry.
//
// Application settings live in a TOML file (keyward.toml by default):
//
//	include = ["keys/editor.toml", "keys/snippets.yaml"]
//	plugins = ["plugins/vim.lua"]
//
//	[log]
//	level = "info"
//	format = "text"
//
//	[ui]
//	mode = "auto"
//	separator = " — "
//
// Collection definitions may be written in TOML, YAML or JSON; the format
// is chosen by file extension. They may also appear inline in the
// application file as [[collection]] tables:
//
//	[[collection]]
//	name = "main"
//	kind = "action"
//
//	[[collection.command]]
//	name = "file_save"
//	text = "&Save"
//	keys = ["Ctrl+S"]
//	defaults = ["Ctrl+S"]
//
// Environment variables prefixed with KEYWARD_ override a small set of
// settings; see ApplyEnv.
package config
