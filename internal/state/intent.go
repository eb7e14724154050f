package state

import (
	"encoding/json"
	"fmt"
)

// Intent is a high-level editing command from keys, scripts or a remote
// controller. Intents are translated into effects by the Engine.
type Intent interface {
	Name() string
}

// Move shifts the cursor by Delta, or jumps to the named Anchor.
type Move struct {
	Delta  Position
	Anchor string
}

// Mark begins a marking session.
type Mark struct{ Kind MarkKind }

// Dip selects a drawing color, adding it to the palette when new.
type Dip struct{ Color Color }

// Recolor replaces the color of the selected palette entry, repainting
// every pixel that uses it.
type Recolor struct{ Color Color }

// SelectColor selects an existing palette entry.
type SelectColor struct{ Index ColorIndex }

// Scale adjusts the zoom by Delta.
type Scale struct{ Delta int8 }

// Center moves the camera to the cursor, or to Anchor when set.
type Center struct{ Anchor string }

// SetAnchor stores the cursor position under the name Anchor.
type SetAnchor struct{ Anchor string }

// SetTag stores the current log position under the name Tag.
type SetTag struct{ Tag string }

// BackgroundColor sets the background color.
type BackgroundColor struct{ Color Color }

// Checkout restores the canvas to the state recorded by Tag.
type Checkout struct{ Tag string }

// Import paints a list of pixels as one group.
type Import struct{ Pixels []PixelColor }

// Embed stores or replaces an animation frame.
type Embed struct{ Frame Frame }

// Tick moves the clock by Delta, stopping at zero.
type Tick struct{ Delta int32 }

// Play starts automatic clock advancement.
type Play struct{ Playback Playback }

// Remove deletes a tag, anchor or frame.
type Remove struct{ Target RemoveTarget }

// Flip mirrors the marked pixels, or the whole canvas.
type Flip struct{ Direction FlipDirection }

// ExternalCommand is handed to the external-process launcher untouched.
type ExternalCommand struct {
	Program string   `json:"program"`
	Args    []string `json:"args"`
}

type (
	Pick   struct{}
	Draw   struct{}
	Erase  struct{}
	Cut    struct{}
	Copy   struct{}
	Paste  struct{}
	Cancel struct{}
	Undo   struct{}
	Redo   struct{}
	Quit   struct{}
	Rotate struct{}
)

// TargetKind names what a Remove intent deletes.
type TargetKind string

const (
	TargetTag    TargetKind = "tag"
	TargetAnchor TargetKind = "anchor"
	TargetFrame  TargetKind = "frame"
)

type RemoveTarget struct {
	Kind TargetKind
	Name string
}

type FlipDirection string

const (
	FlipHorizontal FlipDirection = "horizontal"
	FlipVertical   FlipDirection = "vertical"
)

func (Move) Name() string            { return "move" }
func (Mark) Name() string            { return "mark" }
func (Dip) Name() string             { return "dip" }
func (Recolor) Name() string         { return "color" }
func (SelectColor) Name() string     { return "select_color" }
func (Pick) Name() string            { return "pick" }
func (Draw) Name() string            { return "draw" }
func (Erase) Name() string           { return "erase" }
func (Cut) Name() string             { return "cut" }
func (Copy) Name() string            { return "copy" }
func (Paste) Name() string           { return "paste" }
func (Cancel) Name() string          { return "cancel" }
func (Undo) Name() string            { return "undo" }
func (Redo) Name() string            { return "redo" }
func (Quit) Name() string            { return "quit" }
func (Scale) Name() string           { return "scale" }
func (Center) Name() string          { return "center" }
func (SetAnchor) Name() string       { return "anchor" }
func (SetTag) Name() string          { return "tag" }
func (BackgroundColor) Name() string { return "background_color" }
func (Checkout) Name() string        { return "checkout" }
func (Import) Name() string          { return "import" }
func (Embed) Name() string           { return "embed" }
func (Tick) Name() string            { return "tick" }
func (Play) Name() string            { return "play" }
func (Remove) Name() string          { return "remove" }
func (Flip) Name() string            { return "flip" }
func (Rotate) Name() string          { return "rotate" }
func (ExternalCommand) Name() string { return "external_command" }

var unitIntents = map[string]Intent{
	"pick":   Pick{},
	"draw":   Draw{},
	"erase":  Erase{},
	"cut":    Cut{},
	"copy":   Copy{},
	"paste":  Paste{},
	"cancel": Cancel{},
	"undo":   Undo{},
	"redo":   Redo{},
	"quit":   Quit{},
	"rotate": Rotate{},
}

// ParseIntent decodes one intent. Unit intents are bare strings ("draw");
// the rest are single-key objects ({"move":{"x":1,"y":0}}).
func ParseIntent(data []byte) (Intent, error) {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if in, ok := unitIntents[name]; ok {
			return in, nil
		}
		return nil, fmt.Errorf("%w: unknown intent %q", ErrInvalidIntent, name)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIntent, err)
	}
	if len(obj) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one key, got %d", ErrInvalidIntent, len(obj))
	}
	for name, raw := range obj {
		in, err := decodeIntent(name, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidIntent, name, err)
		}
		return in, nil
	}
	panic("unreachable")
}

func decodeIntent(name string, raw json.RawMessage) (Intent, error) {
	if in, ok := unitIntents[name]; ok {
		return in, nil
	}
	switch name {
	case "move":
		var v struct {
			X      *int16  `json:"x"`
			Y      *int16  `json:"y"`
			Anchor *string `json:"anchor"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if v.Anchor != nil {
			return Move{Anchor: *v.Anchor}, nil
		}
		var d Position
		if v.X != nil {
			d.X = *v.X
		}
		if v.Y != nil {
			d.Y = *v.Y
		}
		return Move{Delta: d}, nil
	case "mark":
		var kind MarkKind
		if err := json.Unmarshal(raw, &kind); err != nil {
			return nil, err
		}
		return Mark{Kind: kind}, nil
	case "dip":
		var c Color
		err := json.Unmarshal(raw, &c)
		return Dip{Color: c}, err
	case "color":
		var c Color
		err := json.Unmarshal(raw, &c)
		return Recolor{Color: c}, err
	case "select_color":
		var i ColorIndex
		err := json.Unmarshal(raw, &i)
		return SelectColor{Index: i}, err
	case "scale":
		var d int8
		err := json.Unmarshal(raw, &d)
		return Scale{Delta: d}, err
	case "center":
		var target string
		if err := json.Unmarshal(raw, &target); err == nil {
			if target != "cursor" {
				return nil, fmt.Errorf("unknown center target %q", target)
			}
			return Center{}, nil
		}
		var v struct {
			Anchor string `json:"anchor"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return Center{Anchor: v.Anchor}, nil
	case "anchor", "tag":
		var n string
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, err
		}
		if n == "" {
			return nil, fmt.Errorf("empty name")
		}
		if name == "anchor" {
			return SetAnchor{Anchor: n}, nil
		}
		return SetTag{Tag: n}, nil
	case "background_color":
		var c Color
		err := json.Unmarshal(raw, &c)
		return BackgroundColor{Color: c}, err
	case "checkout":
		var v struct {
			Tag string `json:"tag"`
		}
		err := json.Unmarshal(raw, &v)
		return Checkout{Tag: v.Tag}, err
	case "import":
		var pixels []PixelColor
		err := json.Unmarshal(raw, &pixels)
		return Import{Pixels: pixels}, err
	case "embed":
		var f Frame
		if err := json.Unmarshal(raw, &f); err != nil {
			return nil, err
		}
		if f.Name == "" {
			return nil, fmt.Errorf("frame name is required")
		}
		return Embed{Frame: f}, nil
	case "tick":
		var d int32
		err := json.Unmarshal(raw, &d)
		return Tick{Delta: d}, err
	case "play":
		var p Playback
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		if p.FPS == 0 {
			return nil, fmt.Errorf("fps must be positive")
		}
		return Play{Playback: p}, nil
	case "remove":
		var v map[TargetKind]string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		if len(v) != 1 {
			return nil, fmt.Errorf("expected exactly one target")
		}
		for kind, n := range v {
			switch kind {
			case TargetTag, TargetAnchor, TargetFrame:
				return Remove{Target: RemoveTarget{Kind: kind, Name: n}}, nil
			}
			return nil, fmt.Errorf("unknown target kind %q", kind)
		}
	case "flip":
		var d FlipDirection
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		if d != FlipHorizontal && d != FlipVertical {
			return nil, fmt.Errorf("unknown flip direction %q", d)
		}
		return Flip{Direction: d}, nil
	case "external_command":
		var c ExternalCommand
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, err
		}
		if c.Program == "" {
			return nil, fmt.Errorf("program is required")
		}
		return c, nil
	}
	return nil, fmt.Errorf("unknown intent %q", name)
}

// MarshalIntent encodes in using the same vocabulary ParseIntent accepts.
func MarshalIntent(in Intent) ([]byte, error) {
	if _, ok := unitIntents[in.Name()]; ok {
		return json.Marshal(in.Name())
	}
	var body any
	switch in := in.(type) {
	case Move:
		if in.Anchor != "" {
			body = map[string]string{"anchor": in.Anchor}
		} else {
			body = in.Delta
		}
	case Mark:
		body = in.Kind
	case Dip:
		body = in.Color
	case Recolor:
		body = in.Color
	case SelectColor:
		body = in.Index
	case Scale:
		body = in.Delta
	case Center:
		if in.Anchor != "" {
			body = map[string]string{"anchor": in.Anchor}
		} else {
			body = "cursor"
		}
	case SetAnchor:
		body = in.Anchor
	case SetTag:
		body = in.Tag
	case BackgroundColor:
		body = in.Color
	case Checkout:
		body = map[string]string{"tag": in.Tag}
	case Import:
		body = in.Pixels
	case Embed:
		body = in.Frame
	case Tick:
		body = in.Delta
	case Play:
		body = in.Playback
	case Remove:
		body = map[TargetKind]string{in.Target.Kind: in.Target.Name}
	case Flip:
		body = in.Direction
	case ExternalCommand:
		body = in
	default:
		return nil, fmt.Errorf("%w: cannot encode %T", ErrInvalidIntent, in)
	}
	return json.Marshal(map[string]any{in.Name(): body})
}

// IntentList is a JSON array of intents.
type IntentList []Intent

func (l *IntentList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(IntentList, 0, len(raws))
	for i, raw := range raws {
		in, err := ParseIntent(raw)
		if err != nil {
			return fmt.Errorf("intent %d: %w", i, err)
		}
		out = append(out, in)
	}
	*l = out
	return nil
}

func (l IntentList) MarshalJSON() ([]byte, error) {
	raws := make([]json.RawMessage, 0, len(l))
	for _, in := range l {
		raw, err := MarshalIntent(in)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return json.Marshal(raws)
}
