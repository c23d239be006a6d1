// Package formats provides parsers for the model and clip files animation
// is imported from. RSM models are read as far as the node hierarchy and
// keyframes.
package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/midgard-anim/pkg/encoding"
)

// RSM format errors.
var (
	ErrInvalidRSMMagic       = errors.New("invalid RSM magic: expected 'GRSM'")
	ErrUnsupportedRSMVersion = errors.New("unsupported RSM version")
	ErrTruncatedRSMData      = errors.New("truncated RSM data")
	ErrInvalidNodeCount      = errors.New("invalid RSM node count")
	ErrInvalidElementCount   = errors.New("invalid RSM element count")
)

const (
	rsmNameLen     = 40
	maxRSMNodes    = 10000
	maxRSMElements = 100000
	maxRSMKeys     = 10000
)

// RSMVersion represents the RSM file version.
type RSMVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v RSMVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// AtLeast returns true if version is >= major.minor.
func (v RSMVersion) AtLeast(major, minor uint8) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// RSMPosKeyframe represents a position animation keyframe.
type RSMPosKeyframe struct {
	Frame    int32      // Time in milliseconds
	Position [3]float32 // X, Y, Z position
}

// RSMRotKeyframe represents a rotation animation keyframe.
type RSMRotKeyframe struct {
	Frame      int32      // Time in milliseconds
	Quaternion [4]float32 // X, Y, Z, W quaternion
}

// RSMScaleKeyframe represents a scale animation keyframe.
type RSMScaleKeyframe struct {
	Frame int32      // Time in milliseconds
	Scale [3]float32 // X, Y, Z scale
}

// RSMNode is one node of the model hierarchy. Mesh payload is skipped and
// only counted.
type RSMNode struct {
	Name   string // Node name
	Parent string // Parent node name (empty for root)

	Offset   [3]float32 // Pivot point offset
	Position [3]float32 // Translation
	RotAngle float32    // Rotation angle (radians)
	RotAxis  [3]float32 // Rotation axis
	Scale    [3]float32 // Scale factors

	VertexCount int
	FaceCount   int

	PosKeys   []RSMPosKeyframe   // Position keyframes (v < 1.5)
	RotKeys   []RSMRotKeyframe   // Rotation keyframes
	ScaleKeys []RSMScaleKeyframe // Scale keyframes (v >= 1.5)
}

// RSM represents a parsed RSM (Resource Model) file.
type RSM struct {
	Version    RSMVersion // File version
	AnimLength int32      // Animation length in milliseconds
	Alpha      float32    // Global alpha (0-1)
	Textures   []string   // Texture file paths
	RootNode   string     // Root node name
	Nodes      []RSMNode  // Node hierarchy
}

// rsmReader wraps a bytes.Reader and remembers the first failure so the
// parse code can read field after field and check once.
type rsmReader struct {
	r   *bytes.Reader
	err error
}

func (rr *rsmReader) read(v any) {
	if rr.err != nil {
		return
	}
	if err := binary.Read(rr.r, binary.LittleEndian, v); err != nil {
		rr.err = ErrTruncatedRSMData
	}
}

func (rr *rsmReader) skip(n int64) {
	if rr.err != nil {
		return
	}
	if int64(rr.r.Len()) < n {
		rr.err = ErrTruncatedRSMData
		return
	}
	rr.r.Seek(n, io.SeekCurrent)
}

func (rr *rsmReader) name() string {
	buf := make([]byte, rsmNameLen)
	if rr.err != nil {
		return ""
	}
	if _, err := io.ReadFull(rr.r, buf); err != nil {
		rr.err = ErrTruncatedRSMData
		return ""
	}
	return encoding.FixedString(buf)
}

// count reads an element count and rejects negative or implausible values.
func (rr *rsmReader) count(limit int32, what string) int32 {
	var n int32
	rr.read(&n)
	if rr.err == nil && (n < 0 || n > limit) {
		rr.err = fmt.Errorf("%w: %d %s", ErrInvalidElementCount, n, what)
	}
	return n
}

// ParseRSM parses RSM data from a byte slice.
func ParseRSM(data []byte) (*RSM, error) {
	if len(data) < 14 {
		return nil, ErrTruncatedRSMData
	}
	if string(data[:4]) != "GRSM" {
		return nil, ErrInvalidRSMMagic
	}

	rr := &rsmReader{r: bytes.NewReader(data[4:])}

	var verMajor, verMinor uint8
	rr.read(&verMajor)
	rr.read(&verMinor)

	rsm := &RSM{
		Version: RSMVersion{Major: verMajor, Minor: verMinor},
		Alpha:   1.0,
	}

	// Supported versions are 1.1 - 2.3
	if rsm.Version.Major < 1 || rsm.Version.Major > 2 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedRSMVersion, rsm.Version)
	}

	rr.read(&rsm.AnimLength)

	var shading int32
	rr.read(&shading)

	if rsm.Version.AtLeast(1, 4) {
		var alpha uint8
		rr.read(&alpha)
		rsm.Alpha = float32(alpha) / 255.0
	}

	// Reserved
	rr.skip(16)

	textureCount := rr.count(maxRSMElements, "textures")
	if rr.err != nil {
		return nil, rr.err
	}
	rsm.Textures = make([]string, textureCount)
	for i := range rsm.Textures {
		rsm.Textures[i] = rr.name()
	}

	rsm.RootNode = rr.name()

	var nodeCount int32
	rr.read(&nodeCount)
	if rr.err != nil {
		return nil, rr.err
	}
	if nodeCount < 0 || nodeCount > maxRSMNodes {
		return nil, ErrInvalidNodeCount
	}

	rsm.Nodes = make([]RSMNode, nodeCount)
	for i := range rsm.Nodes {
		if err := parseRSMNode(rr, rsm.Version, &rsm.Nodes[i]); err != nil {
			return nil, fmt.Errorf("parsing node %d: %w", i, err)
		}
	}

	// Volume boxes may follow; they carry nothing the importer needs.
	return rsm, nil
}

// parseRSMNode parses a single node from the reader.
func parseRSMNode(rr *rsmReader, version RSMVersion, node *RSMNode) error {
	node.Name = rr.name()
	node.Parent = rr.name()

	textureCount := rr.count(maxRSMElements, "texture ids")
	rr.skip(int64(textureCount) * 4)

	// 3x3 matrix
	rr.skip(9 * 4)

	rr.read(&node.Offset)
	rr.read(&node.Position)
	rr.read(&node.RotAngle)
	rr.read(&node.RotAxis)
	rr.read(&node.Scale)

	vertexCount := rr.count(maxRSMElements, "vertices")
	rr.skip(int64(vertexCount) * 12)
	node.VertexCount = int(vertexCount)

	texCoordSize := int64(8)
	if version.AtLeast(1, 2) {
		texCoordSize += 4 // vertex color
	}
	texCoordCount := rr.count(maxRSMElements, "texcoords")
	rr.skip(int64(texCoordCount) * texCoordSize)

	faceSize := int64(20)
	if version.AtLeast(1, 2) {
		faceSize += 4 // smooth group
	}
	faceCount := rr.count(maxRSMElements, "faces")
	rr.skip(int64(faceCount) * faceSize)
	node.FaceCount = int(faceCount)

	if !version.AtLeast(1, 5) {
		n := rr.count(maxRSMKeys, "position keys")
		if rr.err == nil && n > 0 {
			node.PosKeys = make([]RSMPosKeyframe, n)
			for i := range node.PosKeys {
				rr.read(&node.PosKeys[i].Frame)
				rr.read(&node.PosKeys[i].Position)
			}
		}
		for i := 1; i < len(node.PosKeys) && rr.err == nil; i++ {
			if node.PosKeys[i].Frame < node.PosKeys[i-1].Frame {
				rr.err = fmt.Errorf("%w: node %s key %d", ErrUnorderedKeys, node.Name, i)
			}
		}
	}

	n := rr.count(maxRSMKeys, "rotation keys")
	if rr.err == nil && n > 0 {
		node.RotKeys = make([]RSMRotKeyframe, n)
		for i := range node.RotKeys {
			rr.read(&node.RotKeys[i].Frame)
			rr.read(&node.RotKeys[i].Quaternion)
		}
	}

	if version.AtLeast(1, 5) {
		n := rr.count(maxRSMKeys, "scale keys")
		if rr.err == nil && n > 0 {
			node.ScaleKeys = make([]RSMScaleKeyframe, n)
			for i := range node.ScaleKeys {
				rr.read(&node.ScaleKeys[i].Frame)
				rr.read(&node.ScaleKeys[i].Scale)
			}
		}
	}

	return rr.err
}

// ParseRSMFile parses an RSM file from disk.
func ParseRSMFile(path string) (*RSM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading RSM file: %w", err)
	}
	return ParseRSM(data)
}

// GetNodeByName returns a node by its name, or nil if not found.
func (rsm *RSM) GetNodeByName(name string) *RSMNode {
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Name == name {
			return &rsm.Nodes[i]
		}
	}
	return nil
}

// GetChildNodes returns all nodes that have the given parent name.
func (rsm *RSM) GetChildNodes(parentName string) []*RSMNode {
	var children []*RSMNode
	for i := range rsm.Nodes {
		if rsm.Nodes[i].Parent == parentName && rsm.Nodes[i].Name != parentName {
			children = append(children, &rsm.Nodes[i])
		}
	}
	return children
}

// Hierarchy returns the nodes in depth-first order starting at RootNode.
// Nodes unreachable from the root are appended in file order.
func (rsm *RSM) Hierarchy() []*RSMNode {
	ordered := make([]*RSMNode, 0, len(rsm.Nodes))
	seen := make(map[*RSMNode]bool, len(rsm.Nodes))

	var walk func(n *RSMNode)
	walk = func(n *RSMNode) {
		if seen[n] {
			return
		}
		seen[n] = true
		ordered = append(ordered, n)
		for _, child := range rsm.GetChildNodes(n.Name) {
			walk(child)
		}
	}

	if root := rsm.GetNodeByName(rsm.RootNode); root != nil {
		walk(root)
	}
	for i := range rsm.Nodes {
		walk(&rsm.Nodes[i])
	}
	return ordered
}

// HasAnimation returns true if the model has any animation keyframes.
func (rsm *RSM) HasAnimation() bool {
	for _, node := range rsm.Nodes {
		if len(node.PosKeys) > 0 || len(node.RotKeys) > 0 || len(node.ScaleKeys) > 0 {
			return true
		}
	}
	return false
}
