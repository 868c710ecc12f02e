// Package bind associates XML nodes with YANG schema nodes and
// enforces mandatory/type/range/pattern constraints and YANG-aware
// list ordering. It implements spec component 4.C.
//
// Rather than carrying the YANG module set in a package-level global
// (the approach the original clixon carries forward from its C
// ancestry, per the "global mutable state" design note), every public
// entry point here takes a *Context, a small borrowed-view handle
// threaded through validation and sort.
package bind

import (
	"github.com/andaru/netconfd/yangmodel"
)

// Context carries the read-only YANG module set used to validate and
// sort a tree. It is safe to share a Context across concurrent
// sessions; Collection is read-only once loaded.
type Context struct {
	Modules *yangmodel.Collection
}

// NewContext returns a Context for the given module collection.
func NewContext(mods *yangmodel.Collection) *Context {
	return &Context{Modules: mods}
}
