package shader

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexFormatInfo pairs a vertex format with its byte size for offset calculation.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// parsedField is one member of a WGSL struct.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}

// wgslVertexFormatMap maps the WGSL types usable as vertex attributes to wgpu formats.
var wgslVertexFormatMap = map[string]vertexFormatInfo{
	"f32":       {wgpu.VertexFormatFloat32, 4},
	"vec2f":     {wgpu.VertexFormatFloat32x2, 8},
	"vec2<f32>": {wgpu.VertexFormatFloat32x2, 8},
	"vec3f":     {wgpu.VertexFormatFloat32x3, 12},
	"vec3<f32>": {wgpu.VertexFormatFloat32x3, 12},
	"vec4f":     {wgpu.VertexFormatFloat32x4, 16},
	"vec4<f32>": {wgpu.VertexFormatFloat32x4, 16},
}

var (
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)
	locationRegex    = regexp.MustCompile(`@location\((\d+)\)`)
	builtinRegex     = regexp.MustCompile(`@builtin\(\w+\)`)

	// fieldRegex matches "[attributes] name: type". The type capture is greedy so
	// parameterized types like array<T, N> survive.
	fieldRegex = regexp.MustCompile(`(?:(?:@\w+\([^)]*\)\s*)*)*\s*(\w+)\s*:\s*(.+)`)

	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b\s*fn\s+(\w+)\s*\(([^)]*(?:\([^)]*\)[^)]*)*)\)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b\s*fn\s+(\w+)`)

	// bindGroupDeclRegex captures group, binding, address space, name and type from
	// "@group(0) @binding(0) var<uniform> u: Uniforms;" and handle types without an address space.
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseEntryPoint returns the entry point function name for the given stage, or "".
func parseEntryPoint(source string, shaderType ShaderType) string {
	cleaned := stripComments(source)

	var re *regexp.Regexp
	switch shaderType {
	case ShaderTypeVertex:
		re = vertexEntryRegex
	case ShaderTypeFragment:
		re = fragmentEntryRegex
	default:
		return ""
	}

	if match := re.FindStringSubmatch(cleaned); match != nil {
		return match[1]
	}
	return ""
}

// parseVertexLayouts builds one vertex buffer layout per vertex input struct taken by
// the vertex entry point, in parameter order. A vertex input struct has @location
// members and no @builtin members.
//
// Parameters:
//   - source: WGSL source code
//
// Returns:
//   - []wgpu.VertexBufferLayout: layouts indexed by buffer slot
func parseVertexLayouts(source string) []wgpu.VertexBufferLayout {
	cleaned := stripComments(source)
	structs := make(map[string]parsedStruct)
	for _, ps := range parseStructBlocks(cleaned) {
		structs[ps.name] = ps
	}

	match := vertexEntryRegex.FindStringSubmatch(cleaned)
	if match == nil {
		return nil
	}

	var layouts []wgpu.VertexBufferLayout
	for _, param := range splitAtTopLevelCommas(match[2]) {
		fm := fieldRegex.FindStringSubmatch(strings.TrimSpace(param))
		if fm == nil {
			continue
		}
		ps, ok := structs[strings.TrimSpace(fm[2])]
		if !ok || !isVertexInputStruct(ps) {
			continue
		}
		layout, ok := buildVertexBufferLayout(ps)
		if !ok {
			continue
		}
		layouts = append(layouts, layout)
	}
	return layouts
}

// parseBindGroupLayouts extracts every @group/@binding declaration as a layout entry.
// Buffer entries get MinBindingSize from the bound struct's computed size. Declarations
// classifyResource does not recognize are left out.
//
// Parameters:
//   - source: WGSL source code
//   - visibility: the stage flag applied to every entry
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
func parseBindGroupLayouts(source string, visibility wgpu.ShaderStage) map[int]wgpu.BindGroupLayoutDescriptor {
	cleaned := stripComments(source)
	sizes := computeStructSizes(parseStructBlocks(cleaned))

	groups := make(map[int][]wgpu.BindGroupLayoutEntry)
	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		typeName := strings.TrimSpace(match[5])

		entry, ok := classifyResource(uint32(binding), visibility, addressSpace, typeName)
		if !ok {
			continue
		}
		if entry.Buffer.Type != wgpu.BufferBindingTypeUndefined {
			if layout, ok := resolveTypeLayout(typeName, sizes); ok {
				entry.Buffer.MinBindingSize = layout.size
			}
		}
		groups[group] = append(groups[group], entry)
	}

	result := make(map[int]wgpu.BindGroupLayoutDescriptor, len(groups))
	for g, entries := range groups {
		sortEntries(entries)
		result[g] = wgpu.BindGroupLayoutDescriptor{Entries: entries}
	}
	return result
}

func sortEntries(entries []wgpu.BindGroupLayoutEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Binding < entries[j].Binding
	})
}

// parseStructBlocks finds all struct blocks in comment-free WGSL source.
func parseStructBlocks(source string) []parsedStruct {
	matches := structBlockRegex.FindAllStringSubmatch(source, -1)
	structs := make([]parsedStruct, 0, len(matches))
	for _, match := range matches {
		structs = append(structs, parsedStruct{
			name:   match[1],
			fields: parseStructFields(match[2]),
		})
	}
	return structs
}

// parseStructFields splits a struct body into fields with their @location and @builtin attributes.
func parseStructFields(body string) []parsedField {
	lines := splitAtTopLevelCommas(body)
	fields := make([]parsedField, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field := parsedField{location: -1}
		field.isBuiltin = builtinRegex.MatchString(line)
		if locMatch := locationRegex.FindStringSubmatch(line); locMatch != nil {
			if loc, err := strconv.Atoi(locMatch[1]); err == nil {
				field.location = loc
			}
		}

		fm := fieldRegex.FindStringSubmatch(line)
		if fm == nil {
			continue
		}
		field.name = fm[1]
		field.typeName = strings.TrimSpace(fm[2])
		fields = append(fields, field)
	}

	return fields
}
