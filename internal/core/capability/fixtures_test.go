package capability_test

import (
	"encoding/xml"

	"github.com/nightconcept/capctl/internal/core/capability"
)

func testVerb(name string) *capability.Verb {
	v := &capability.Verb{Name: name, Command: "edit", Arguments: `--open "%1"`}
	v.Descriptions.Set("", "Open with the editor")
	v.Descriptions.Set("de", "Mit dem Editor öffnen")
	return v
}

func testIcons() capability.IconFields {
	f := capability.IconFields{
		Icons: []capability.Icon{
			{Href: "http://example.com/icon.png", MimeType: "image/png"},
			{Href: "http://example.com/icon.ico", MimeType: "image/vnd.microsoft.icon"},
		},
	}
	f.Descriptions.Set("", "Example document")
	return f
}

// newSampleEntries returns one fully populated capability of every kind.
func newSampleEntries() []capability.Capability {
	fileType := &capability.FileType{
		Base:          capability.Base{ID: "Example.Document"},
		DefaultFields: capability.DefaultFields{ExplicitOnly: true},
		VerbFields:    capability.VerbFields{IconFields: testIcons(), Verbs: []*capability.Verb{testVerb("open"), testVerb("convert")}},
		Extensions: []capability.FileTypeExtension{
			{Value: ".exd", MimeType: "application/x-example", PerceivedType: capability.PerceivedDocument},
			{Value: ".exd2"},
		},
	}
	urlProtocol := &capability.UrlProtocol{
		Base:          capability.Base{ID: "example"},
		VerbFields:    capability.VerbFields{Verbs: []*capability.Verb{testVerb("open")}},
		KnownPrefixes: []capability.KnownProtocolPrefix{{Value: "http"}, {Value: "ftp"}},
	}
	autoPlay := &capability.AutoPlay{
		Base:       capability.Base{ID: "Example.AutoPlay"},
		IconFields: testIcons(),
		Provider:   "Example Player",
		Verb:       testVerb("play"),
		Events: []capability.AutoPlayEvent{
			{Name: capability.EventPlayCDAudio},
			{Name: capability.EventPlayDVDMovie},
		},
	}
	contextMenu := &capability.ContextMenu{
		Base:       capability.Base{ID: "Example.ContextMenu"},
		VerbFields: capability.VerbFields{Verbs: []*capability.Verb{testVerb("compress")}},
		Target:     capability.TargetDirectories,
	}
	defaultProgram := &capability.DefaultProgram{
		Base:       capability.Base{ID: "Example"},
		VerbFields: capability.VerbFields{IconFields: testIcons(), Verbs: []*capability.Verb{testVerb("open")}},
		Service:    capability.ServiceMail,
		InstallCommands: capability.InstallCommands{
			Reinstall: "example.exe", ReinstallArgs: "--reinstall",
			ShowIcons: "example.exe", ShowIconsArgs: "--show",
			HideIcons: "example.exe", HideIconsArgs: "--hide",
		},
	}
	return []capability.Capability{
		&capability.AppRegistration{Base: capability.Base{ID: "Example"}, CapabilityRegPath: `SOFTWARE\Example\Capabilities`},
		autoPlay,
		&capability.ComServer{Base: capability.Base{ID: "{5DA35C53-0000-0000-0000-000000000000}"}},
		contextMenu,
		defaultProgram,
		fileType,
		urlProtocol,
	}
}

func newSampleList() *capability.List {
	return capability.NewList(capability.OSWindows, newSampleEntries()...)
}

func foreignAttr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: "http://example.com/future", Local: local}, Value: value}
}
