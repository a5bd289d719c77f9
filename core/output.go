package core

import (
	"fmt"
	"io"

	"github.com/Qitmeer/qitmeer-clbench/common"
	"github.com/mailru/easyjson"
	"gopkg.in/yaml.v3"
)

type deviceInfoAlias DeviceInfo

type deviceInfoYAML struct {
	Info deviceInfoAlias `yaml:",inline"`
	Type []string        `yaml:"type"`
}

// MarshalYAML adds the named type flags next to the other fields.
func (d DeviceInfo) MarshalYAML() (interface{}, error) {
	return deviceInfoYAML{Info: deviceInfoAlias(d), Type: DeviceTypeNames(d.Type)}, nil
}

// encode writes v in the structured format; text is handled by the caller.
func encode(w io.Writer, format string, v easyjson.Marshaler) error {
	switch format {
	case common.OUTPUT_JSON:
		if _, err := easyjson.MarshalToWriter(v, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	case common.OUTPUT_YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// WriteInventory renders the inventory; detail selects the long text report.
func WriteInventory(p *Printer, format string, inv *Inventory, detail bool) error {
	if format == common.OUTPUT_TEXT || format == "" {
		if detail {
			p.Detail(inv)
		} else {
			p.Summary(inv)
		}
		return nil
	}
	return encode(p.w, format, inv)
}

func WriteResults(p *Printer, format string, results []BenchResult) error {
	if format == common.OUTPUT_TEXT || format == "" {
		p.Results(results)
		return nil
	}
	return encode(p.w, format, BenchResults(results))
}
