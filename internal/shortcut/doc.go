// Package shortcut manages keyboard shortcuts of editor commands and keeps
// them free of ambiguity.
//
// # Key Concepts
//
// Command: A named action with display text and zero or more key sequences.
//
// Collection: A named group of commands belonging to one feature area.
// Collections are owned elsewhere; the registry only observes them.
//
// Registry: Non-owning index of collections by name. A collection whose
// owner released it disappears from the registry on the next read.
//
// Detector: Compares a proposed shortcut set against every other command
// and reports overlaps. Two sequences overlap when one is a prefix of the
// other (see key.Ambiguous).
//
// Resolver: Drives the edit/check/report loop for one command and commits
// the new shortcuts only when no conflict remains.
//
// # Usage
//
//	reg := shortcut.NewRegistry()
//	main := shortcut.NewActionCollection("main")
//	save := main.Add("file_save", "&Save", key.MustParseSequence("Ctrl+S"))
//	reg.Register(main)
//
//	det := shortcut.NewDetector(reg)
//	report := det.Detect(save, key.MustParseSequences("Ctrl+K"), nil)
//	if !report.Empty() {
//	    fmt.Println(shortcut.FormatReport(report).Text())
//	}
//
//	res := shortcut.NewResolver(det, editor, presenter)
//	outcome, err := res.Run(ctx, save, save.Defaults(), nil)
package shortcut
