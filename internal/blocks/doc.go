// Package blocks renders detail-document content blocks into render trees.
//
// Every block is rendered inside its own fault-isolation boundary, keyed by the
// block's path in the document ("0", "0/2/1"), so a failing block degrades to
// the fallback chip while its siblings render normally. Chart blocks never wait
// for their module: a module that is still loading renders as a placeholder and
// is listed in the outcome's Pending set, and the caller re-renders once it is
// ready. Card blocks recurse up to a configurable nesting depth.
package blocks
