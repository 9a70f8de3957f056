// =============================================================================
// Cube Tally - XML Report Writer
// =============================================================================
//
// This module renders a run summary as an XML report.
//
// OUTPUT STRUCTURE:
//   <?xml version="1.0" encoding="UTF-8"?>
//   <tally run="..." source="games.txt" sum="8" records="5" valid="3" duration="1.2ms">
//     <limits red="12" green="13" blue="14"/>
//     <record id="1" valid="true">
//       <group n="1">
//         <leaf category="blue" quantity="3"/>
//         <leaf category="red" quantity="4"/>
//       </group>
//     </record>
//     <record id="3" valid="false">
//       <group n="1">...</group>
//       <violation group="1" category="red" quantity="20" limit="12">record 3, group 1: 20 red exceeds limit of 12</violation>
//     </record>
//   </tally>
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/cube-tally/internal/types"
)

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// IncludeXMLDeclaration adds the <?xml ...?> header.
	// Default: true
	IncludeXMLDeclaration bool

	// Indent is the string used for one level of indentation.
	// Default: "  "
	Indent string

	// IncludeGroups writes the group and leaf elements of every record.
	// Default: true
	IncludeGroups bool
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		IncludeXMLDeclaration: true,
		Indent:                "  ",
		IncludeGroups:         true,
	}
}

// =============================================================================
// MAIN GENERATION FUNCTION
// =============================================================================

// Generate creates the XML report for a summary using default options.
func Generate(summary types.Summary) ([]byte, error) {
	return GenerateWithOptions(summary, DefaultGenerateOptions())
}

// GenerateWithOptions creates the XML report with custom options.
func GenerateWithOptions(summary types.Summary, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	root := buildDocument(summary, options)
	writeElement(&buffer, root, options.Indent, 0)

	return buffer.Bytes(), nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

func buildDocument(summary types.Summary, options GenerateOptions) XMLElement {
	root := newElement("tally",
		"run", summary.RunID,
		"source", summary.Source,
		"sum", strconv.FormatUint(summary.Sum, 10),
		"records", strconv.Itoa(summary.Stats.Records),
		"valid", strconv.Itoa(summary.Stats.Valid),
		"duration", summary.Stats.Duration.String(),
	)

	root.Children = append(root.Children, newElement("limits",
		"red", strconv.FormatUint(summary.Limits.Red, 10),
		"green", strconv.FormatUint(summary.Limits.Green, 10),
		"blue", strconv.FormatUint(summary.Limits.Blue, 10),
	))

	for _, outcome := range summary.Outcomes {
		root.Children = append(root.Children, buildRecordElement(outcome, options))
	}

	return root
}

// buildRecordElement constructs a record element.
//
// STRUCTURE:
//   <record id="1" valid="true">
//     <group n="1"><leaf .../></group>
//     <violation .../>
//   </record>
func buildRecordElement(outcome types.Outcome, options GenerateOptions) XMLElement {
	record := newElement("record",
		"id", strconv.FormatUint(outcome.Record.ID, 10),
		"valid", strconv.FormatBool(outcome.Valid),
	)

	if options.IncludeGroups {
		for i, group := range outcome.Record.Groups {
			groupElement := newElement("group", "n", strconv.Itoa(i+1))
			for _, leaf := range group.Leaves {
				groupElement.Children = append(groupElement.Children, newElement("leaf",
					"category", leaf.Category.String(),
					"quantity", strconv.FormatUint(leaf.Quantity, 10),
				))
			}
			record.Children = append(record.Children, groupElement)
		}
	}

	if v := outcome.Violation; v != nil {
		violation := newElement("violation",
			"group", strconv.Itoa(v.GroupIndex+1),
			"category", v.Category.String(),
			"quantity", strconv.FormatUint(v.Quantity, 10),
			"limit", strconv.FormatUint(v.Limit, 10),
		)
		violation.Value = v.Error()
		record.Children = append(record.Children, violation)
	}

	return record
}

// newElement creates an element from alternating attribute names and values.
func newElement(name string, attrs ...string) XMLElement {
	if len(attrs)%2 != 0 {
		panic(fmt.Sprintf("xmlwriter: odd attribute list for <%s>", name))
	}
	element := XMLElement{XMLName: xml.Name{Local: name}}
	for i := 0; i < len(attrs); i += 2 {
		element.Attributes = append(element.Attributes, xml.Attr{
			Name:  xml.Name{Local: attrs[i]},
			Value: attrs[i+1],
		})
	}
	return element
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// writeElement writes an XML element to the buffer with indentation.
func writeElement(buffer *bytes.Buffer, element XMLElement, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}

	buffer.WriteString("<")
	buffer.WriteString(element.XMLName.Local)

	for _, attr := range element.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	if len(element.Children) == 0 && element.Value == "" {
		buffer.WriteString("/>\n")
		return
	}

	buffer.WriteString(">")

	if element.Value != "" {
		buffer.WriteString(escapeXML(element.Value))
	} else {
		buffer.WriteString("\n")
		for _, child := range element.Children {
			writeElement(buffer, child, indent, level+1)
		}
		for i := 0; i < level; i++ {
			buffer.WriteString(indent)
		}
	}

	buffer.WriteString("</")
	buffer.WriteString(element.XMLName.Local)
	buffer.WriteString(">\n")
}

// escapeXML escapes special characters for XML text and attribute values.
func escapeXML(s string) string {
	var buffer bytes.Buffer
	if err := xml.EscapeText(&buffer, []byte(s)); err != nil {
		// bytes.Buffer writes do not fail.
		return s
	}
	return buffer.String()
}
