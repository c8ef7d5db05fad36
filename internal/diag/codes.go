package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Условная компиляция (cfg / cfg_attr)
	CfgInfo               Code = 1000
	CfgMalformedPredicate Code = 1001
	CfgMalformedAttr      Code = 1002
	CfgExprNotRemovable   Code = 1003
	CfgUnknownOperator    Code = 1004

	// Раскрытие расширений
	ExpInfo                Code = 2000
	ExpUnresolvedExtension Code = 2001
	ExpMalformedInvocation Code = 2002
	ExpResultKindMismatch  Code = 2003
	ExpModifierArity       Code = 2004
	ExpRecursionLimit      Code = 2005
	ExpAttrOnlyExtension   Code = 2006
	ExpUnexpectedIdent     Code = 2007
	ExpMissingIdent        Code = 2008
	ExpInvariant           Code = 2009
	ExpExtensionError      Code = 2010
	ExpPassedThrough       Code = 2011
	ExpExtensionWarning    Code = 2012
	ExpIgnoredAttr         Code = 2013

	// derive
	DrvInfo             Code = 3000
	DrvMalformedEntry   Code = 3001
	DrvEmptyList        Code = 3002
	DrvCustomGated      Code = 3003
	DrvUnexpectedValue  Code = 3004
	DrvOnNonItem        Code = 3005
	DrvMarkerNotApplied Code = 3006

	// I/O
	IOLoadFileError Code = 4001
	IODecodeError   Code = 4002
	IOEncodeError   Code = 4003

	// Проект
	ProjInfo            Code = 5000
	ProjManifestInvalid Code = 5001
	ProjToolVersion     Code = 5002
	ProjBadAttr         Code = 5003
	ProjBadCfg          Code = 5004

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		CfgInfo:                "Conditional compilation information",
		CfgMalformedPredicate:  "malformed cfg predicate",
		CfgMalformedAttr:       "malformed cfg_attr attribute",
		CfgExprNotRemovable:    "removing an expression is not supported in this position",
		CfgUnknownOperator:     "unknown cfg predicate operator",
		ExpInfo:                "Expansion information",
		ExpUnresolvedExtension: "extension is not defined",
		ExpMalformedInvocation: "expected extension name without module separators",
		ExpResultKindMismatch:  "extension result does not fit its position",
		ExpModifierArity:       "modifier must produce exactly one node",
		ExpRecursionLimit:      "recursion limit reached while expanding",
		ExpAttrOnlyExtension:   "extension can only be used in attributes",
		ExpUnexpectedIdent:     "extension expects no ident argument",
		ExpMissingIdent:        "extension expects an ident argument",
		ExpInvariant:           "internal expansion invariant violated",
		ExpExtensionError:      "error reported by extension",
		ExpPassedThrough:       "invocation left unexpanded",
		ExpExtensionWarning:    "warning reported by extension",
		ExpIgnoredAttr:         "extension attribute on a call-form invocation",
		DrvInfo:                "Derive information",
		DrvMalformedEntry:      "malformed `derive` entry",
		DrvEmptyList:           "empty trait list in `derive`",
		DrvCustomGated:         "custom derive requires the custom_derive capability",
		DrvUnexpectedValue:     "unexpected value in `derive`",
		DrvOnNonItem:           "`derive` can only be applied to items",
		DrvMarkerNotApplied:    "conditional derive marker left for the downstream compiler",
		IOLoadFileError:        "I/O load file error",
		IODecodeError:          "tree file could not be decoded",
		IOEncodeError:          "tree file could not be encoded",
		ProjInfo:               "Project information",
		ProjManifestInvalid:    "invalid project manifest",
		ProjToolVersion:        "tool version does not satisfy project requirement",
		ProjBadAttr:            "malformed attribute in configuration",
		ProjBadCfg:             "malformed cfg entry in configuration",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("EXP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DRV%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
