package demo_test

import (
	"context"
	"testing"

	"github.com/aretw0/bitty"
	"github.com/aretw0/bitty/internal/compiler"
	"github.com/aretw0/bitty/internal/demo"
	"github.com/aretw0/bitty/pkg/adapters/memory"
	"github.com/aretw0/bitty/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mountPage(t *testing.T, src string) (*compiler.Page, *bitty.Engine) {
	t.Helper()
	page, err := compiler.Compile([]byte(src))
	require.NoError(t, err)

	reg := registry.NewRegistry()
	require.NoError(t, demo.Register(reg))
	eng := bitty.New(page.Document,
		bitty.WithRegistry(reg),
		bitty.WithModuleLoader(memory.NewLoader(demo.Module())))
	require.NoError(t, eng.Define(context.Background(), page.Document.Root()))
	for _, c := range eng.Components() {
		require.NoError(t, c.Err())
	}
	return page, eng
}

func text(page *compiler.Page, id string) string {
	return page.Document.GetElementByID(id).Text()
}

func TestCounter(t *testing.T) {
	page, eng := mountPage(t, `
nodes:
  - tag: bitty-2-0
    id: app
    data: {connect: "demo|Counter", send: render, start: 5}
    children:
      - {tag: button, id: inc, data: {send: increment}}
      - {tag: button, id: dec, data: {send: decrement}}
      - {tag: button, id: reset, data: {send: reset}}
      - {tag: output, id: a, data: {receive: "increment|decrement|render"}}
      - {tag: output, id: b, data: {receive: "increment|decrement|render"}}
`)
	doc := page.Document
	assert.Equal(t, "5", text(page, "a"), "root send renders after init")

	doc.Fire("click", doc.GetElementByID("inc"), "")
	doc.Fire("click", doc.GetElementByID("inc"), "")
	doc.Fire("click", doc.GetElementByID("dec"), "")
	assert.Equal(t, "6", text(page, "a"))
	assert.Equal(t, "6", text(page, "b"))

	doc.Fire("click", doc.GetElementByID("reset"), "")
	assert.Equal(t, "0", text(page, "b"))

	c, ok := eng.ComponentAt(doc.GetElementByID("app"))
	require.True(t, ok)
	assert.Equal(t, "demo|Counter", c.Descriptor().String())
}

func TestCounter_GlobalClassAndBadStart(t *testing.T) {
	_, eng := mountPage(t, `
nodes:
  - {tag: bitty-2-0, id: good, data: {connect: Counter}}
`)
	assert.True(t, eng.Components()[0].Connected())

	bad, err := compiler.Compile([]byte(`nodes: [{tag: bitty-2-0, id: bad, data: {connect: Counter, start: nope}}]`))
	require.NoError(t, err)
	reg := registry.NewRegistry()
	require.NoError(t, demo.Register(reg))
	badEng := bitty.New(bad.Document, bitty.WithRegistry(reg))
	require.NoError(t, badEng.Define(context.Background(), bad.Document.Root()))
	assert.False(t, badEng.Components()[0].Connected())
	assert.Error(t, badEng.Components()[0].Err())
}

func TestEcho_DefaultController(t *testing.T) {
	page, _ := mountPage(t, `
nodes:
  - tag: bitty-2-0
    id: app
    children:
      - {tag: input, id: in, data: {send: "echo|shout"}}
      - {tag: span, id: plain, data: {receive: echo}}
      - {tag: span, id: loud, data: {receive: shout}}
`)
	doc := page.Document
	doc.Fire("input", doc.GetElementByID("in"), "hi there")

	assert.Equal(t, "hi there", text(page, "plain"))
	assert.Equal(t, "HI THERE", text(page, "loud"))
}

func TestPeeps(t *testing.T) {
	page, _ := mountPage(t, `
nodes:
  - tag: bitty-2-0
    id: app
    data: {connect: "demo|Peeps"}
    children:
      - {tag: button, id: add, data: {send: addPeeps}}
      - {tag: ul, id: list, data: {role: peeps}}
`)
	doc := page.Document
	doc.Fire("click", doc.GetElementByID("add"), "")

	items := doc.GetElementByID("list").Children()
	require.Len(t, items, demo.PeepCount)
	assert.Equal(t, "peep 1", items[0].Text())
	assert.Equal(t, "peep 12", items[11].Text())
}
