package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Глобальные факты шейдера
	ShdInfo              Code = 1000
	ShdInvalidShaderType Code = 1001
	ShdInvalidEntryPoint Code = 1002
	// Построчные проверки
	ShdStatementInfo     Code = 2000
	ShdMissingTerminator Code = 2001

	// IO
	IOLoadFileError Code = 9001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:          "Unknown error",
		ShdInfo:              "Shader information",
		ShdInvalidShaderType: "Missing or invalid shader_type declaration",
		ShdInvalidEntryPoint: "Missing or invalid entry point",
		ShdStatementInfo:     "Statement information",
		ShdMissingTerminator: "Missing ';' at end of statement",
		IOLoadFileError:      "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 3000:
		return fmt.Sprintf("SHD%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// ParseCode resolves an ID such as "SHD2001" back to its Code.
func ParseCode(id string) (Code, bool) {
	for c := range codeDescription {
		if c.ID() == id {
			return c, true
		}
	}
	return UnknownCode, false
}
