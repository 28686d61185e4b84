package notification

// Flex Message component tree for the LINE Messaging API. Only the
// subset of the schema the composers emit is modeled here.

// Component is any node that can appear in a Box's contents.
type Component interface {
	component()
}

// Bubble is the top-level flex container.
type Bubble struct {
	Type   string `json:"type"`
	Header *Box   `json:"header,omitempty"`
	Body   *Box   `json:"body,omitempty"`
	Footer *Box   `json:"footer,omitempty"`
}

// NewBubble returns an empty bubble container.
func NewBubble() *Bubble {
	return &Bubble{Type: "bubble"}
}

// Box lays out child components vertically or horizontally.
type Box struct {
	Type            string      `json:"type"`
	Layout          string      `json:"layout"`
	Contents        []Component `json:"contents"`
	BackgroundColor string      `json:"backgroundColor,omitempty"`
	PaddingAll      string      `json:"paddingAll,omitempty"`
	Margin          string      `json:"margin,omitempty"`
	Spacing         string      `json:"spacing,omitempty"`
	Flex            *int        `json:"flex,omitempty"`
}

func (*Box) component() {}

// VBox returns a vertical box with the given contents.
func VBox(contents ...Component) *Box {
	return &Box{Type: "box", Layout: "vertical", Contents: contents}
}

// HBox returns a horizontal box with the given contents.
func HBox(contents ...Component) *Box {
	return &Box{Type: "box", Layout: "horizontal", Contents: contents}
}

// Text is a single text node.
type Text struct {
	Type   string `json:"type"`
	Text   string `json:"text"`
	Size   string `json:"size,omitempty"`
	Color  string `json:"color,omitempty"`
	Weight string `json:"weight,omitempty"`
	Align  string `json:"align,omitempty"`
	Margin string `json:"margin,omitempty"`
	Wrap   bool   `json:"wrap,omitempty"`
	Flex   *int   `json:"flex,omitempty"`
}

func (*Text) component() {}

// Separator draws a horizontal rule between siblings.
type Separator struct {
	Type   string `json:"type"`
	Margin string `json:"margin,omitempty"`
}

func (*Separator) component() {}

// NewSeparator returns a separator with the given margin.
func NewSeparator(margin string) *Separator {
	return &Separator{Type: "separator", Margin: margin}
}

// Button renders a tappable action.
type Button struct {
	Type   string     `json:"type"`
	Style  string     `json:"style,omitempty"`
	Height string     `json:"height,omitempty"`
	Action *URIAction `json:"action"`
}

func (*Button) component() {}

// URIAction opens a URL when the button is tapped.
type URIAction struct {
	Type  string `json:"type"`
	Label string `json:"label"`
	URI   string `json:"uri"`
}

// FlexInt returns a pointer so zero flex weights survive serialization.
func FlexInt(n int) *int {
	return &n
}
