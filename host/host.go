// Package host defines the contract between tdollar and the retained-mode UI
// toolkit that actually owns, renders and destroys nodes.
//
// Nothing in this package knows about collections, selectors or namespaced
// events. A toolkit adapter implements Host and Node; the optional interfaces
// below cover the tag-specific pair operations some toolkits expose instead of
// a plain Add/Remove.
package host

// Well-known tags. Hosts are free to support more.
const (
	Window           = "Window"
	View             = "View"
	ScrollView       = "ScrollView"
	Label            = "Label"
	Button           = "Button"
	TextField        = "TextField"
	ImageView        = "ImageView"
	TabGroup         = "TabGroup"
	Tab              = "Tab"
	TableView        = "TableView"
	TableViewSection = "TableViewSection"
	TableViewRow     = "TableViewRow"
)

// Event is the payload a host hands to registered listeners.
type Event struct {
	Type   string
	Source Node
	Data   []any
}

// EventListener receives host events. Hosts compare listeners with ==, so
// implementations must be comparable (pointer receivers).
type EventListener interface {
	HandleEvent(e *Event)
}

// Host is the node factory.
type Host interface {
	// Create builds a node of the given tag from a property bag.
	Create(tag string, props map[string]any) (Node, error)
	// Tags lists the tags Create understands.
	Tags() []string
}

// Node is a toolkit object as seen through generic accessors.
type Node interface {
	// Type returns the tag the node was created with.
	Type() string

	Get(name string) (any, bool)
	Set(name string, value any) error

	Children() []Node
	Add(child Node) error
	Remove(child Node) error

	AddEventListener(name string, l EventListener)
	RemoveEventListener(name string, l EventListener)

	SetVisible(visible bool)
}

// TabContainer is implemented by nodes that hold tabs through a dedicated
// call rather than Add/Remove.
type TabContainer interface {
	AddTab(tab Node) error
	RemoveTab(tab Node) error
}

// RowContainer is implemented by list sections that hold rows.
type RowContainer interface {
	AddRow(row Node) error
	RemoveRow(row Node) error
}

// WindowContainer is implemented by nodes that present a window inside
// themselves (a tab showing its window).
type WindowContainer interface {
	OpenWindow(win Node) error
	CloseWindow(win Node) error
}

// Opener is implemented by top-level nodes that open and close on their own.
type Opener interface {
	Open() error
	Close() error
}

// VisibilityReporter exposes the host's own view of visibility.
type VisibilityReporter interface {
	Visible() bool
}

// Dispatcher is implemented by hosts that can synthesize events.
type Dispatcher interface {
	Dispatch(name string, data ...any)
}
