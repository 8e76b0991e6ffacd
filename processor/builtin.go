package processor

// LegacyDefault is the name of the processor that renders blocks naming no
// processor when legacy behavior is requested.
const LegacyDefault = "legacydefault"

// Builtin returns a catalog of the processors shipped with weft.
func Builtin() Catalog {
	var c Catalog

	c.Register("default", NewDefault)
	c.Register(LegacyDefault, NewLegacyDefault)
	c.Register("helloworld", NewHelloWorld)
	c.Register("table", NewTable)
	c.Register("autowrap", NewAutoWrap)
	c.Register("go", NewGo)
	c.Register("yaml", NewYAML)
	c.Register("highlight", NewHighlight)
	c.Register("chain", NewChain)

	return c
}
