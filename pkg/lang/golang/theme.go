package golang

import "github.com/spoofax-shell-2017/spoofax-shell-sub001/pkg/ui"

var stylingFor = map[regionType]ui.Styling{
	keywordRegion: ui.FgYellow,
	stringRegion:  ui.FgGreen,
	numberRegion:  ui.FgMagenta,
	commentRegion: ui.FgCyan,
	builtinRegion: ui.FgBlue,
	errorRegion:   ui.BgRed,
}
