package lumina

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LayoutSchemaVersion is written to every saved layout. Loading accepts
// this version and anything older.
const LayoutSchemaVersion = 1

// LayoutSnapshot is the persisted form of a docking tree. Only the tree is
// saved; the panel registry and drag state are not.
type LayoutSnapshot struct {
	Version int           `toml:"version" yaml:"version" json:"version"`
	Root    *NodeSnapshot `toml:"root" yaml:"root" json:"root"`
}

// NodeSnapshot is one persisted LayoutNode. Kind is "split", "tabs" or
// "empty"; ids are WidgetID strings.
type NodeSnapshot struct {
	Kind      string        `toml:"kind" yaml:"kind" json:"kind"`
	ID        string        `toml:"id,omitempty" yaml:"id,omitempty" json:"id,omitempty"`
	Direction string        `toml:"direction,omitempty" yaml:"direction,omitempty" json:"direction,omitempty"`
	Ratio     float64       `toml:"ratio,omitempty" yaml:"ratio,omitempty" json:"ratio,omitempty"`
	Left      *NodeSnapshot `toml:"left,omitempty" yaml:"left,omitempty" json:"left,omitempty"`
	Right     *NodeSnapshot `toml:"right,omitempty" yaml:"right,omitempty" json:"right,omitempty"`
	ActiveTab int           `toml:"active_tab,omitempty" yaml:"active_tab,omitempty" json:"active_tab,omitempty"`
	Panels    []string      `toml:"panels,omitempty" yaml:"panels,omitempty" json:"panels,omitempty"`
}

// LayoutFormat is a serialization syntax for layouts.
type LayoutFormat uint8

const (
	FormatTOML LayoutFormat = iota // default
	FormatYAML
	FormatJSON
)

func (f LayoutFormat) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "toml"
	}
}

// ParseLayoutFormat parses "toml", "yaml"/"yml" or "json".
func ParseLayoutFormat(s string) (LayoutFormat, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "toml", "":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatTOML, fmt.Errorf("lumina: layout format %q: %w", s, ErrUnsupportedFormat)
}

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (LayoutFormat, error) {
	return ParseLayoutFormat(filepath.Ext(path))
}

// Snapshot converts a tree into its persisted form.
func Snapshot(root *LayoutNode) *LayoutSnapshot {
	return &LayoutSnapshot{Version: LayoutSchemaVersion, Root: snapshotNode(root)}
}

func snapshotNode(n *LayoutNode) *NodeSnapshot {
	if n.IsEmpty() {
		return &NodeSnapshot{Kind: NodeEmpty.String()}
	}
	s := &NodeSnapshot{Kind: n.Kind.String(), ID: n.ID.String()}
	switch n.Kind {
	case NodeSplit:
		s.Direction = n.Direction.String()
		s.Ratio = n.Ratio
		s.Left = snapshotNode(n.Left)
		s.Right = snapshotNode(n.Right)
	case NodeTabs:
		s.ActiveTab = n.ActiveTab
		s.Panels = make([]string, len(n.Panels))
		for i, p := range n.Panels {
			s.Panels[i] = p.String()
		}
	}
	return s
}

// FromSnapshot rebuilds a tree. Out-of-range ratios and active tabs are
// clamped, malformed ids are replaced, and a panel listed twice keeps only
// its first placement. Those repairs are returned as warnings. Unknown node
// kinds and trees deeper than maxDepth (when positive) are errors.
func FromSnapshot(s *LayoutSnapshot, maxDepth int) (*LayoutNode, []string, error) {
	if s == nil || s.Root == nil {
		return EmptyNode(), nil, nil
	}
	b := snapshotBuilder{seen: make(map[PanelID]bool), maxDepth: maxDepth}
	if s.Version > LayoutSchemaVersion {
		b.warn("layout version %d is newer than %d", s.Version, LayoutSchemaVersion)
	}
	root, err := b.node(s.Root, 0)
	if err != nil {
		return nil, b.warnings, err
	}
	return root, b.warnings, nil
}

type snapshotBuilder struct {
	seen     map[PanelID]bool
	maxDepth int
	warnings []string
}

func (b *snapshotBuilder) warn(format string, args ...any) {
	b.warnings = append(b.warnings, fmt.Sprintf(format, args...))
}

func (b *snapshotBuilder) id(s string) WidgetID {
	if s == "" {
		return NewWidgetID()
	}
	id, err := ParseWidgetID(s)
	if err != nil {
		b.warn("replacing node id: %v", err)
		return NewWidgetID()
	}
	return id
}

func (b *snapshotBuilder) node(s *NodeSnapshot, depth int) (*LayoutNode, error) {
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return nil, fmt.Errorf("lumina: load layout at depth %d: %w", depth, ErrTreeTooDeep)
	}
	if s == nil {
		return EmptyNode(), nil
	}
	switch strings.ToLower(s.Kind) {
	case "", "empty":
		return EmptyNode(), nil

	case "split":
		n := &LayoutNode{Kind: NodeSplit, ID: b.id(s.ID)}
		switch strings.ToLower(s.Direction) {
		case "", "horizontal":
			n.Direction = Horizontal
		case "vertical":
			n.Direction = Vertical
		default:
			b.warn("split %s: unknown direction %q, using horizontal", n.ID.Short(), s.Direction)
		}
		n.Ratio = s.Ratio
		if n.Ratio == 0 {
			n.Ratio = 0.5
		}
		if c := ClampRatio(n.Ratio); c != n.Ratio {
			b.warn("split %s: ratio %v clamped to %v", n.ID.Short(), n.Ratio, c)
			n.Ratio = c
		}
		var err error
		if n.Left, err = b.node(s.Left, depth+1); err != nil {
			return nil, err
		}
		if n.Right, err = b.node(s.Right, depth+1); err != nil {
			return nil, err
		}
		return n, nil

	case "tabs":
		n := &LayoutNode{Kind: NodeTabs, ID: b.id(s.ID), ActiveTab: s.ActiveTab}
		for i, raw := range s.Panels {
			pid, err := ParseWidgetID(raw)
			if err != nil {
				b.warn("tabs %s: dropping panel %d: %v", n.ID.Short(), i, err)
				if i < s.ActiveTab {
					n.ActiveTab--
				}
				continue
			}
			if b.seen[pid] {
				b.warn("tabs %s: dropping duplicate panel %s", n.ID.Short(), pid.Short())
				if i < s.ActiveTab {
					n.ActiveTab--
				}
				continue
			}
			b.seen[pid] = true
			n.Panels = append(n.Panels, pid)
		}
		if before := n.ActiveTab; len(n.Panels) > 0 {
			n.clampActive()
			if n.ActiveTab != before {
				b.warn("tabs %s: active tab %d clamped to %d", n.ID.Short(), before, n.ActiveTab)
			}
		} else {
			n.ActiveTab = 0
		}
		return n, nil
	}
	return nil, fmt.Errorf("lumina: load layout: unknown node kind %q", s.Kind)
}

// EncodeSnapshot serializes s in format.
func EncodeSnapshot(s *LayoutSnapshot, format LayoutFormat) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(s)
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatJSON:
		data, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("lumina: encode layout as %v: %w", format, ErrUnsupportedFormat)
}

// DecodeSnapshot parses data in format.
func DecodeSnapshot(data []byte, format LayoutFormat) (*LayoutSnapshot, error) {
	var s LayoutSnapshot
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatJSON:
		err = json.NewDecoder(bytes.NewReader(data)).Decode(&s)
	default:
		return nil, fmt.Errorf("lumina: decode layout as %v: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("lumina: decode %v layout: %w", format, err)
	}
	return &s, nil
}

// UnknownFields decodes data strictly and describes every field the
// snapshot schema does not know. Loading ignores such fields; callers report
// them. JSON stops at the first unknown field.
func UnknownFields(data []byte, format LayoutFormat) []string {
	var s LayoutSnapshot
	var err error
	switch format {
	case FormatTOML:
		err = toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&s)
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			out := make([]string, len(strict.Errors))
			for i := range strict.Errors {
				out[i] = "unknown field " + strings.Join(strict.Errors[i].Key(), ".")
			}
			return out
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&s)
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return append([]string(nil), typeErr.Errors...)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&s)
	default:
		return nil
	}
	if err != nil {
		return []string{err.Error()}
	}
	return nil
}

// SaveLayout serializes the tree in format.
func (m *DockingManager) SaveLayout(format LayoutFormat) ([]byte, error) {
	return EncodeSnapshot(Snapshot(m.root), format)
}

// LoadLayout replaces the whole tree with a serialized one and rebuilds the
// tab bars. The previous tree is recorded for Undo. Panels referenced by the
// layout but not registered stay in the tree and are skipped when rendering
// until they are registered.
func (m *DockingManager) LoadLayout(data []byte, format LayoutFormat) error {
	s, err := DecodeSnapshot(data, format)
	if err != nil {
		return err
	}
	root, warnings, err := FromSnapshot(s, m.config.MaxTreeDepth)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger().Warn("layout repaired on load", "detail", w)
	}
	for _, w := range UnknownFields(data, format) {
		logger().Warn("layout field ignored on load", "detail", w)
	}
	for _, id := range root.AllPanels() {
		if _, ok := m.panels[id]; !ok {
			if _, ok := m.closed[id]; !ok {
				logger().Warn("layout references unregistered panel", "panel", id.String())
			}
		}
	}
	m.history.Record(m.root.Clone())
	m.replaceRoot(Optimize(root))
	m.emit(UIEvent{Kind: UIEventLayoutLoaded})
	return nil
}

// SaveLayoutFile writes the tree to path in the format implied by its
// extension. The file is written to a temporary sibling and renamed into
// place.
func (m *DockingManager) SaveLayoutFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := m.SaveLayout(format)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("lumina: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("lumina: rename %s: %w", tmp, err)
	}
	return nil
}

// LoadLayoutFile loads a layout from path in the format implied by its
// extension.
func (m *DockingManager) LoadLayoutFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("lumina: read %s: %w", path, err)
	}
	return m.LoadLayout(data, format)
}
