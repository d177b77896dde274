package main

import (
	"io"
	"sync"

	"github.com/fatih/color"
)

var (
	routeColor  = color.New(color.FgCyan)
	reloadColor = color.New(color.FgHiBlack)
)

// cliNavigator prints the route a browser would move to. Each command runs in
// a fresh process, so a reload has no state left to rebuild.
type cliNavigator struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func newCLINavigator(out io.Writer) *cliNavigator {
	return &cliNavigator{out: out}
}

func (n *cliNavigator) Navigate(route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.last = route
	routeColor.Fprintf(n.out, "-> %s\n", route)
}

func (n *cliNavigator) Reload() {
	n.mu.Lock()
	defer n.mu.Unlock()
	reloadColor.Fprintln(n.out, "-> reload")
}

func (n *cliNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}
