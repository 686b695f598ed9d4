// =============================================================================
// Grocery List Converter - XML Writer Module
// =============================================================================
//
// This module renders grocery records as an XML document and reads such a
// document back for verification.
//
// XML STRUCTURE:
//
//   <groceryList>                        <!-- Root element -->
//     <item n="1">                       <!-- One element per record, 1-based -->
//       <category>Meats</category>
//       <name>Chicken Breast</name>
//       <quantity>2</quantity>
//     </item>
//     <item n="2">
//       <category>Pantry</category>
//       <name>Olive Oil</name>
//       <quantity>1</quantity>
//     </item>
//   </groceryList>
//
// Records appear in input order. Text values are escaped, never altered.
//
// =============================================================================

package xmlwriter

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ginjaninja78/grocery-list-converter/internal/types"
	"github.com/ginjaninja78/grocery-list-converter/internal/validation"
)

// Element names of the document.
const (
	RootElement     = "groceryList"
	ItemElement     = "item"
	CategoryElement = "category"
	NameElement     = "name"
	QuantityElement = "quantity"
)

// Output is always UTF-8.
const xmlDeclaration = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"

// =============================================================================
// XML GENERATION OPTIONS
// =============================================================================

// GenerateOptions contains options for XML generation.
type GenerateOptions struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootAttributes are additional attributes for the root element.
	// Example: {"source": "weekly.txt"}
	RootAttributes map[string]string

	// IndexAttribute is the attribute carrying the record number.
	// Default: "n"
	IndexAttribute string
}

// DefaultGenerateOptions returns the default generation options.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootAttributes:        make(map[string]string),
		IndexAttribute:        "n",
	}
}

// =============================================================================
// XML GENERATION FUNCTIONS
// =============================================================================

// Generate creates an XML document from the records with default options.
func Generate(items []types.GroceryItem) ([]byte, error) {
	return GenerateWithOptions(items, DefaultGenerateOptions())
}

// GenerateWithOptions creates an XML document with custom options.
//
// GENERATION PROCESS:
//   1. Write the declaration if requested
//   2. Create the root element with its attributes
//   3. Add one item element per record, numbered from 1
//   4. Write the tree with indentation
func GenerateWithOptions(items []types.GroceryItem, options GenerateOptions) ([]byte, error) {
	var buffer bytes.Buffer

	if options.IncludeXMLDeclaration {
		buffer.WriteString(xmlDeclaration)
	}

	doc := buildDocument(items, options)

	xmlBytes, err := marshalWithIndent(doc, options.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}
	buffer.Write(xmlBytes)

	return buffer.Bytes(), nil
}

// WriteFile generates the document with default options and writes it to
// path.
func WriteFile(path string, items []types.GroceryItem) error {
	return WriteFileWithOptions(path, items, DefaultGenerateOptions())
}

// WriteFileWithOptions generates the document and writes it to path, creating
// parent directories as needed.
func WriteFileWithOptions(path string, items []types.GroceryItem, options GenerateOptions) error {
	data, err := GenerateWithOptions(items, options)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write XML file: %w", err)
	}
	return nil
}

// =============================================================================
// XML DOCUMENT BUILDING
// =============================================================================

// XMLDocument represents the root of the XML document.
type XMLDocument struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Children   []XMLElement
}

// XMLElement represents a generic XML element.
type XMLElement struct {
	XMLName    xml.Name
	Attributes []xml.Attr
	Value      string
	Children   []XMLElement
}

// buildDocument constructs the XML document structure.
func buildDocument(items []types.GroceryItem, options GenerateOptions) *XMLDocument {
	doc := &XMLDocument{
		XMLName: xml.Name{Local: RootElement},
	}

	// Map iteration order is random; keep attributes stable.
	keys := make([]string, 0, len(options.RootAttributes))
	for key := range options.RootAttributes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		doc.Attributes = append(doc.Attributes, xml.Attr{
			Name:  xml.Name{Local: key},
			Value: options.RootAttributes[key],
		})
	}

	for i, item := range items {
		doc.Children = append(doc.Children, buildItemElement(item, i+1, options))
	}

	return doc
}

// buildItemElement constructs one record element.
//
// STRUCTURE:
//   <item n="1">
//     <category>Meats</category>
//     <name>Chicken Breast</name>
//     <quantity>2</quantity>
//   </item>
func buildItemElement(item types.GroceryItem, index int, options GenerateOptions) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: ItemElement},
		Attributes: []xml.Attr{
			{
				Name:  xml.Name{Local: options.IndexAttribute},
				Value: strconv.Itoa(index),
			},
		},
		Children: []XMLElement{
			createSimpleElement(CategoryElement, item.Category),
			createSimpleElement(NameElement, item.Item),
			createSimpleElement(QuantityElement, strconv.Itoa(item.Quantity)),
		},
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// createSimpleElement creates a simple XML element with a text value.
func createSimpleElement(name, value string) XMLElement {
	return XMLElement{
		XMLName: xml.Name{Local: name},
		Value:   value,
	}
}

// marshalWithIndent marshals the document with indentation.
func marshalWithIndent(doc *XMLDocument, indent string) ([]byte, error) {
	var buffer bytes.Buffer

	buffer.WriteString("<")
	buffer.WriteString(doc.XMLName.Local)
	for _, attr := range doc.Attributes {
		buffer.WriteString(fmt.Sprintf(" %s=\"%s\"", attr.Name.Local, escapeXML(attr.Value)))
	}

	if len(doc.Children) == 0 {
		buffer.WriteString("/>\n")
		return buffer.Bytes(), nil
	}
	buffer.WriteString(">\n")

	for _, child := range doc.Children {
		writeElement(&buffer, child, indent, 1)
	}

	buffer.WriteString("</")
	buffer.WriteString(doc.XMLName.Local)
	buffer.WriteString(">\n")

	return buffer.Bytes(), nil
}

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

// escapeXML escapes special characters for XML. Characters XML 1.0 does not
// allow are replaced with U+FFFD.
func escapeXML(s string) string {
	var buffer bytes.Buffer

	for _, r := range s {
		switch r {
		case '&':
			buffer.WriteString("&amp;")
		case '<':
			buffer.WriteString("&lt;")
		case '>':
			buffer.WriteString("&gt;")
		case '"':
			buffer.WriteString("&quot;")
		case '\'':
			buffer.WriteString("&apos;")
		case '\t':
			buffer.WriteString("&#x9;")
		case '\n':
			buffer.WriteString("&#xA;")
		case '\r':
			buffer.WriteString("&#xD;")
		default:
			if !isXMLChar(r) {
				r = '\uFFFD'
			}
			buffer.WriteRune(r)
		}
	}

	return buffer.String()
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		(r >= 0x20 && r <= 0xD7FF) ||
		(r >= 0xE000 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0x10FFFF)
}

// =============================================================================
// READ-BACK
// =============================================================================

type xmlList struct {
	XMLName xml.Name  `xml:"groceryList"`
	Items   []xmlItem `xml:"item"`
}

type xmlItem struct {
	Category string `xml:"category"`
	Name     string `xml:"name"`
	Quantity string `xml:"quantity"`
}

// ReadItems decodes a document written by WriteFile and validates its records
// the same way tabular outputs are validated.
func ReadItems(path string) ([]types.GroceryItem, *validation.ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read XML file: %w", err)
	}

	var list xmlList
	if err := xml.Unmarshal(data, &list); err != nil {
		return nil, nil, fmt.Errorf("failed to parse XML file: %w", err)
	}

	rows := make([][]string, 0, len(list.Items))
	for _, it := range list.Items {
		rows = append(rows, []string{it.Category, it.Name, it.Quantity})
	}

	items, result := validation.ValidateTable(types.Columns, rows)
	return items, result, nil
}
