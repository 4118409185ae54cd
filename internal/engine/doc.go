// Package engine assembles the rendering pipeline: the component registry
// seeded with the built-in cards, the chart module resolver, the card
// dispatcher, and the block renderer, all configured from config.Config.
//
// The engine renders two kinds of views. A deck view dispatches every card to
// its component. A detail view fetches the card's detail document, selects
// the active tab, and renders its blocks. Neither view ever fails as a whole:
// fetch errors, missing components and broken blocks all degrade to inline
// notices or fallback chips, and are returned in the outcome's Reported list.
package engine
