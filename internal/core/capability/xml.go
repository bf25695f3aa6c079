package capability

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FeedNamespace is the namespace icons are written in.
const FeedNamespace = "http://zero-install.sourceforge.net/2004/injector/interface"

const (
	xmlLangSpace = "http://www.w3.org/XML/1998/namespace"
	rootElement  = "capabilities"
	indent       = "  "
)

// Decode reads a capabilities document. Attributes and elements that are not
// part of the schema are kept on the node they appeared under.
func Decode(r io.Reader) (*List, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: no root element", ErrInvalidDocument)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read capabilities document: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if start.Name.Local != rootElement || !inNamespace(start.Name, Namespace) {
			return nil, fmt.Errorf("%w: unexpected root element <%s> in namespace %q", ErrInvalidDocument, start.Name.Local, start.Name.Space)
		}
		return (&decoder{d: d}).list(start)
	}
}

// DecodeBytes is Decode for in-memory documents.
func DecodeBytes(data []byte) (*List, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes l as an indented capabilities document.
func Encode(w io.Writer, l *List) error {
	if l == nil {
		return fmt.Errorf("%w: list must not be nil", ErrInvalidArgument)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}
	enc := &encoder{e: xml.NewEncoder(w)}
	enc.e.Indent("", indent)
	if err := enc.list(l); err != nil {
		return err
	}
	if err := enc.e.Flush(); err != nil {
		return fmt.Errorf("failed to flush capabilities document: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// EncodeBytes is Encode into a byte slice.
func EncodeBytes(l *List) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, l); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// inNamespace also accepts unqualified names so documents written without a
// namespace declaration still load.
func inNamespace(name xml.Name, space string) bool {
	return name.Space == space || name.Space == ""
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

func stripNamespaceDecls(attrs []xml.Attr) []xml.Attr {
	var out []xml.Attr
	for _, a := range attrs {
		if !isNamespaceDecl(a) {
			out = append(out, a)
		}
	}
	return out
}

type decodeFunc func(dec *decoder, start xml.StartElement) (Capability, error)

var decoders map[Kind]decodeFunc

func init() {
	decoders = map[Kind]decodeFunc{
		KindAppRegistration: (*decoder).appRegistration,
		KindAutoPlay:        (*decoder).autoPlay,
		KindComServer:       (*decoder).comServer,
		KindContextMenu:     (*decoder).contextMenu,
		KindDefaultProgram:  (*decoder).defaultProgram,
		KindFileType:        (*decoder).fileType,
		KindUrlProtocol:     (*decoder).urlProtocol,
	}
}

type decoder struct {
	d *xml.Decoder
}

// attrs hands every unqualified attribute of start to fn. Attributes fn does
// not claim are added to u.
func (dec *decoder) attrs(start xml.StartElement, u *Unknown, fn func(name, value string) (bool, error)) error {
	for _, a := range start.Attr {
		if isNamespaceDecl(a) {
			continue
		}
		if a.Name.Space == "" && fn != nil {
			handled, err := fn(a.Name.Local, a.Value)
			if err != nil {
				return fmt.Errorf("invalid attribute %q on <%s>: %w", a.Name.Local, start.Name.Local, err)
			}
			if handled {
				continue
			}
		}
		u.Attrs = append(u.Attrs, a)
	}
	return nil
}

// walk consumes the content of the current element up to its end tag. Child
// elements fn does not claim are added to u; fn must consume the elements it
// claims. The concatenated character data is returned.
func (dec *decoder) walk(u *Unknown, fn func(start xml.StartElement) (bool, error)) (string, error) {
	var text strings.Builder
	for {
		tok, err := dec.d.Token()
		if err != nil {
			return "", fmt.Errorf("failed to read capabilities document: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			handled := false
			if fn != nil {
				if handled, err = fn(t); err != nil {
					return "", err
				}
			}
			if handled {
				continue
			}
			raw, err := dec.raw(t)
			if err != nil {
				return "", err
			}
			u.Elements = append(u.Elements, raw)
		case xml.CharData:
			text.Write(t)
		case xml.EndElement:
			return text.String(), nil
		}
	}
}

// raw reads an element the model does not know. Its content is re-encoded
// from resolved names so every element and attribute in InnerXML declares the
// namespace it uses instead of relying on prefixes bound by its ancestors.
func (dec *decoder) raw(start xml.StartElement) (RawElement, error) {
	raw := RawElement{XMLName: start.Name, Attrs: stripNamespaceDecls(start.Attr)}
	var inner bytes.Buffer
	e := xml.NewEncoder(&inner)
	spaces := []string{start.Name.Space}
	for len(spaces) > 0 {
		tok, err := dec.d.Token()
		if err != nil {
			return RawElement{}, fmt.Errorf("failed to read element <%s>: %w", start.Name.Local, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			t.Attr = scopedAttrs(t, spaces[len(spaces)-1])
			spaces = append(spaces, t.Name.Space)
			tok = t
		case xml.EndElement:
			spaces = spaces[:len(spaces)-1]
			if len(spaces) == 0 {
				continue
			}
		}
		if err := e.EncodeToken(tok); err != nil {
			return RawElement{}, fmt.Errorf("failed to copy element <%s>: %w", start.Name.Local, err)
		}
	}
	if err := e.Flush(); err != nil {
		return RawElement{}, fmt.Errorf("failed to copy element <%s>: %w", start.Name.Local, err)
	}
	raw.InnerXML = inner.String()
	return raw, nil
}

// scopedAttrs drops namespace declarations from start, which the encoder
// writes itself. An element without a namespace nested in one that has a
// namespace gets an explicit empty default.
func scopedAttrs(start xml.StartElement, parentSpace string) []xml.Attr {
	attrs := stripNamespaceDecls(start.Attr)
	if start.Name.Space == "" && parentSpace != "" {
		attrs = append([]xml.Attr{emptyDefaultNamespace}, attrs...)
	}
	return attrs
}

var emptyDefaultNamespace = xml.Attr{Name: xml.Name{Local: "xmlns"}}

func isElement(start xml.StartElement, local string) bool {
	return start.Name.Local == local && inNamespace(start.Name, Namespace)
}

func (dec *decoder) list(start xml.StartElement) (*List, error) {
	l := &List{}
	err := dec.attrs(start, &l.Unknown, func(name, value string) (bool, error) {
		if name != "os" {
			return false, nil
		}
		var err error
		l.OS, err = ParseOS(value)
		return true, err
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&l.Unknown, func(child xml.StartElement) (bool, error) {
		if !inNamespace(child.Name, Namespace) {
			return false, nil
		}
		decode, ok := decoders[Kind(child.Name.Local)]
		if !ok {
			return false, nil
		}
		c, err := decode(dec, child)
		if err != nil {
			return false, err
		}
		l.Entries = append(l.Entries, c)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func parseBool(value string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, fmt.Errorf("%q is not a boolean", value)
	}
	return b, nil
}

// baseAttr claims the attributes every capability has.
func baseAttr(b *Base, d *DefaultFields, name, value string) (bool, error) {
	switch {
	case name == "id":
		b.ID = value
		return true, nil
	case name == "explicit-only" && d != nil:
		var err error
		d.ExplicitOnly, err = parseBool(value)
		return true, err
	}
	return false, nil
}

func (dec *decoder) description(start xml.StartElement, into *LocalizableStrings) error {
	var entry LocalizableString
	for _, a := range start.Attr {
		switch {
		case isNamespaceDecl(a):
		case a.Name.Space == xmlLangSpace && a.Name.Local == "lang":
			entry.Lang = a.Value
		default:
			entry.Unknown.Attrs = append(entry.Unknown.Attrs, a)
		}
	}
	text, err := dec.walk(&entry.Unknown, nil)
	if err != nil {
		return err
	}
	entry.Value = text
	into.put(entry)
	return nil
}

func (dec *decoder) icon(start xml.StartElement) (Icon, error) {
	var icon Icon
	err := dec.attrs(start, &icon.Unknown, func(name, value string) (bool, error) {
		switch name {
		case "href":
			icon.Href = value
		case "type":
			icon.MimeType = value
		default:
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return icon, err
	}
	_, err = dec.walk(&icon.Unknown, nil)
	return icon, err
}

func (dec *decoder) verb(start xml.StartElement) (*Verb, error) {
	v := &Verb{}
	err := dec.attrs(start, &v.Unknown, func(name, value string) (bool, error) {
		switch name {
		case "name":
			v.Name = value
		case "command":
			v.Command = value
		case "args":
			v.Arguments = value
		case "extended":
			var err error
			v.Extended, err = parseBool(value)
			return true, err
		default:
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&v.Unknown, func(child xml.StartElement) (bool, error) {
		if isElement(child, "description") {
			return true, dec.description(child, &v.Descriptions)
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// iconChild claims description and icon children.
func (dec *decoder) iconChild(child xml.StartElement, f *IconFields) (bool, error) {
	switch {
	case isElement(child, "description"):
		return true, dec.description(child, &f.Descriptions)
	case child.Name.Local == "icon" && (child.Name.Space == FeedNamespace || child.Name.Space == Namespace):
		icon, err := dec.icon(child)
		if err != nil {
			return true, err
		}
		f.Icons = append(f.Icons, icon)
		return true, nil
	}
	return false, nil
}

// verbChild claims description, icon and verb children.
func (dec *decoder) verbChild(child xml.StartElement, f *VerbFields) (bool, error) {
	if isElement(child, "verb") {
		v, err := dec.verb(child)
		if err != nil {
			return true, err
		}
		f.Verbs = append(f.Verbs, v)
		return true, nil
	}
	return dec.iconChild(child, &f.IconFields)
}

func (dec *decoder) appRegistration(start xml.StartElement) (Capability, error) {
	c := &AppRegistration{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		if name == "capability-reg-path" {
			c.CapabilityRegPath = value
			return true, nil
		}
		return baseAttr(&c.Base, nil, name, value)
	})
	if err != nil {
		return nil, err
	}
	if _, err := dec.walk(&c.Unknown, nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (dec *decoder) autoPlay(start xml.StartElement) (Capability, error) {
	c := &AutoPlay{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		if name == "provider" {
			c.Provider = value
			return true, nil
		}
		return baseAttr(&c.Base, &c.DefaultFields, name, value)
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&c.Unknown, func(child xml.StartElement) (bool, error) {
		switch {
		case isElement(child, "verb") && c.Verb == nil:
			v, err := dec.verb(child)
			c.Verb = v
			return true, err
		case isElement(child, "event"):
			var e AutoPlayEvent
			err := dec.attrs(child, &e.Unknown, func(name, value string) (bool, error) {
				if name == "name" {
					e.Name = value
					return true, nil
				}
				return false, nil
			})
			if err != nil {
				return true, err
			}
			if _, err := dec.walk(&e.Unknown, nil); err != nil {
				return true, err
			}
			c.Events = append(c.Events, e)
			return true, nil
		}
		return dec.iconChild(child, &c.IconFields)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (dec *decoder) comServer(start xml.StartElement) (Capability, error) {
	c := &ComServer{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		return baseAttr(&c.Base, nil, name, value)
	})
	if err != nil {
		return nil, err
	}
	if _, err := dec.walk(&c.Unknown, nil); err != nil {
		return nil, err
	}
	return c, nil
}

func (dec *decoder) contextMenu(start xml.StartElement) (Capability, error) {
	c := &ContextMenu{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		if name == "target" {
			c.Target = ContextMenuTarget(value)
			return true, nil
		}
		return baseAttr(&c.Base, &c.DefaultFields, name, value)
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&c.Unknown, func(child xml.StartElement) (bool, error) {
		return dec.verbChild(child, &c.VerbFields)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (dec *decoder) defaultProgram(start xml.StartElement) (Capability, error) {
	c := &DefaultProgram{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		if name == "service" {
			c.Service = value
			return true, nil
		}
		return baseAttr(&c.Base, &c.DefaultFields, name, value)
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&c.Unknown, func(child xml.StartElement) (bool, error) {
		if isElement(child, "install-commands") {
			return true, dec.installCommands(child, &c.InstallCommands)
		}
		return dec.verbChild(child, &c.VerbFields)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (dec *decoder) installCommands(start xml.StartElement, ic *InstallCommands) error {
	fields := map[string]*string{
		"reinstall":       &ic.Reinstall,
		"reinstall-args":  &ic.ReinstallArgs,
		"show-icons":      &ic.ShowIcons,
		"show-icons-args": &ic.ShowIconsArgs,
		"hide-icons":      &ic.HideIcons,
		"hide-icons-args": &ic.HideIconsArgs,
	}
	err := dec.attrs(start, &ic.Unknown, func(name, value string) (bool, error) {
		field, ok := fields[name]
		if ok {
			*field = value
		}
		return ok, nil
	})
	if err != nil {
		return err
	}
	_, err = dec.walk(&ic.Unknown, nil)
	return err
}

func (dec *decoder) fileType(start xml.StartElement) (Capability, error) {
	c := &FileType{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		return baseAttr(&c.Base, &c.DefaultFields, name, value)
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&c.Unknown, func(child xml.StartElement) (bool, error) {
		if !isElement(child, "extension") {
			return dec.verbChild(child, &c.VerbFields)
		}
		var ext FileTypeExtension
		err := dec.attrs(child, &ext.Unknown, func(name, value string) (bool, error) {
			switch name {
			case "value":
				ext.Value = value
			case "mime-type":
				ext.MimeType = value
			case "perceived-type":
				ext.PerceivedType = value
			default:
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			return true, err
		}
		if _, err := dec.walk(&ext.Unknown, nil); err != nil {
			return true, err
		}
		c.Extensions = append(c.Extensions, ext)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (dec *decoder) urlProtocol(start xml.StartElement) (Capability, error) {
	c := &UrlProtocol{}
	err := dec.attrs(start, &c.Unknown, func(name, value string) (bool, error) {
		return baseAttr(&c.Base, &c.DefaultFields, name, value)
	})
	if err != nil {
		return nil, err
	}
	_, err = dec.walk(&c.Unknown, func(child xml.StartElement) (bool, error) {
		if !isElement(child, "known-prefix") {
			return dec.verbChild(child, &c.VerbFields)
		}
		var p KnownProtocolPrefix
		err := dec.attrs(child, &p.Unknown, func(name, value string) (bool, error) {
			if name == "value" {
				p.Value = value
				return true, nil
			}
			return false, nil
		})
		if err != nil {
			return true, err
		}
		if _, err := dec.walk(&p.Unknown, nil); err != nil {
			return true, err
		}
		c.KnownPrefixes = append(c.KnownPrefixes, p)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

type encoder struct {
	e *xml.Encoder
}

type attrList []xml.Attr

// add appends name=value unless value is empty.
func (a attrList) add(name, value string) attrList {
	if value == "" {
		return a
	}
	return append(a, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (a attrList) flag(name string, set bool) attrList {
	if !set {
		return a
	}
	return append(a, xml.Attr{Name: xml.Name{Local: name}, Value: "true"})
}

// element writes <name attrs...>, the body, any preserved children and the
// end tag. Preserved attributes follow the known ones.
func (enc *encoder) element(name xml.Name, attrs attrList, u *Unknown, body func() error) error {
	start := xml.StartElement{Name: name, Attr: append(attrs, u.Attrs...)}
	if err := enc.e.EncodeToken(start); err != nil {
		return fmt.Errorf("failed to write <%s>: %w", name.Local, err)
	}
	if body != nil {
		if err := body(); err != nil {
			return err
		}
	}
	if err := enc.preserved(u); err != nil {
		return err
	}
	if err := enc.e.EncodeToken(start.End()); err != nil {
		return fmt.Errorf("failed to close <%s>: %w", name.Local, err)
	}
	return nil
}

func (enc *encoder) preserved(u *Unknown) error {
	for i := range u.Elements {
		raw := u.Elements[i]
		if raw.XMLName.Space == "" {
			raw.Attrs = append([]xml.Attr{emptyDefaultNamespace}, raw.Attrs...)
		}
		if err := enc.e.Encode(&raw); err != nil {
			return fmt.Errorf("failed to write preserved element <%s>: %w", raw.XMLName.Local, err)
		}
	}
	return nil
}

func local(name string) xml.Name { return xml.Name{Local: name} }

func (enc *encoder) list(l *List) error {
	var attrs attrList
	if l.OS != OSAll {
		attrs = attrs.add("os", l.OS.String())
	}
	return enc.element(xml.Name{Space: Namespace, Local: rootElement}, attrs, &l.Unknown, func() error {
		for _, c := range l.Entries {
			if err := enc.capability(c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (enc *encoder) capability(c Capability) error {
	switch v := c.(type) {
	case *AppRegistration:
		attrs := attrList{}.add("id", v.ID).add("capability-reg-path", v.CapabilityRegPath)
		return enc.element(local(string(KindAppRegistration)), attrs, &v.Unknown, nil)
	case *AutoPlay:
		attrs := attrList{}.add("id", v.ID).flag("explicit-only", v.ExplicitOnly).add("provider", v.Provider)
		return enc.element(local(string(KindAutoPlay)), attrs, &v.Unknown, func() error {
			if err := enc.iconFields(&v.IconFields); err != nil {
				return err
			}
			if v.Verb != nil {
				if err := enc.verb(v.Verb); err != nil {
					return err
				}
			}
			for i := range v.Events {
				e := &v.Events[i]
				if err := enc.element(local("event"), attrList{}.add("name", e.Name), &e.Unknown, nil); err != nil {
					return err
				}
			}
			return nil
		})
	case *ComServer:
		return enc.element(local(string(KindComServer)), attrList{}.add("id", v.ID), &v.Unknown, nil)
	case *ContextMenu:
		attrs := attrList{}.add("id", v.ID).flag("explicit-only", v.ExplicitOnly)
		if v.EffectiveTarget() != TargetFiles {
			attrs = attrs.add("target", string(v.Target))
		}
		return enc.element(local(string(KindContextMenu)), attrs, &v.Unknown, func() error {
			return enc.verbFields(&v.VerbFields)
		})
	case *DefaultProgram:
		attrs := attrList{}.add("id", v.ID).flag("explicit-only", v.ExplicitOnly).add("service", v.Service)
		return enc.element(local(string(KindDefaultProgram)), attrs, &v.Unknown, func() error {
			if err := enc.verbFields(&v.VerbFields); err != nil {
				return err
			}
			if v.InstallCommands.IsEmpty() {
				return nil
			}
			ic := &v.InstallCommands
			icAttrs := attrList{}.
				add("reinstall", ic.Reinstall).add("reinstall-args", ic.ReinstallArgs).
				add("show-icons", ic.ShowIcons).add("show-icons-args", ic.ShowIconsArgs).
				add("hide-icons", ic.HideIcons).add("hide-icons-args", ic.HideIconsArgs)
			return enc.element(local("install-commands"), icAttrs, &ic.Unknown, nil)
		})
	case *FileType:
		attrs := attrList{}.add("id", v.ID).flag("explicit-only", v.ExplicitOnly)
		return enc.element(local(string(KindFileType)), attrs, &v.Unknown, func() error {
			if err := enc.verbFields(&v.VerbFields); err != nil {
				return err
			}
			for i := range v.Extensions {
				ext := &v.Extensions[i]
				extAttrs := attrList{}.add("value", ext.Value).add("mime-type", ext.MimeType).add("perceived-type", ext.PerceivedType)
				if err := enc.element(local("extension"), extAttrs, &ext.Unknown, nil); err != nil {
					return err
				}
			}
			return nil
		})
	case *UrlProtocol:
		attrs := attrList{}.add("id", v.ID).flag("explicit-only", v.ExplicitOnly)
		return enc.element(local(string(KindUrlProtocol)), attrs, &v.Unknown, func() error {
			if err := enc.verbFields(&v.VerbFields); err != nil {
				return err
			}
			for i := range v.KnownPrefixes {
				p := &v.KnownPrefixes[i]
				if err := enc.element(local("known-prefix"), attrList{}.add("value", p.Value), &p.Unknown, nil); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return fmt.Errorf("%w: unsupported capability type %T", ErrInvalidArgument, c)
}

func (enc *encoder) descriptions(s *LocalizableStrings) error {
	for i := range s.entries {
		entry := &s.entries[i]
		start := xml.StartElement{Name: local("description")}
		if !strings.EqualFold(entry.Lang, DefaultLanguage) {
			start.Attr = []xml.Attr{{Name: xml.Name{Space: xmlLangSpace, Local: "lang"}, Value: entry.Lang}}
		}
		start.Attr = append(start.Attr, entry.Unknown.Attrs...)
		if err := enc.e.EncodeToken(start); err != nil {
			return fmt.Errorf("failed to write <description>: %w", err)
		}
		if err := enc.e.EncodeToken(xml.CharData(entry.Value)); err != nil {
			return fmt.Errorf("failed to write description text: %w", err)
		}
		// Indenting children would add whitespace to the text.
		enc.e.Indent("", "")
		err := enc.preserved(&entry.Unknown)
		enc.e.Indent("", indent)
		if err != nil {
			return err
		}
		if err := enc.e.EncodeToken(start.End()); err != nil {
			return fmt.Errorf("failed to close <description>: %w", err)
		}
	}
	return nil
}

func (enc *encoder) iconFields(f *IconFields) error {
	if err := enc.descriptions(&f.Descriptions); err != nil {
		return err
	}
	for i := range f.Icons {
		icon := &f.Icons[i]
		attrs := attrList{}.add("href", icon.Href).add("type", icon.MimeType)
		if err := enc.element(xml.Name{Space: FeedNamespace, Local: "icon"}, attrs, &icon.Unknown, nil); err != nil {
			return err
		}
	}
	return nil
}

func (enc *encoder) verbFields(f *VerbFields) error {
	if err := enc.iconFields(&f.IconFields); err != nil {
		return err
	}
	for _, v := range f.Verbs {
		if v == nil {
			continue
		}
		if err := enc.verb(v); err != nil {
			return err
		}
	}
	return nil
}

func (enc *encoder) verb(v *Verb) error {
	attrs := attrList{}.add("name", v.Name).add("command", v.Command).add("args", v.Arguments).flag("extended", v.Extended)
	return enc.element(local("verb"), attrs, &v.Unknown, func() error {
		return enc.descriptions(&v.Descriptions)
	})
}
