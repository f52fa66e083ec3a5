package export

import (
	gojson "github.com/goccy/go-json"
	"github.com/mcncl/jsontab/internal/config"
	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/generator"
	"github.com/mcncl/jsontab/internal/logging"
	"github.com/mcncl/jsontab/internal/models"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ToStructpb converts v to a protobuf Value with the same layout as its JSON
// serialization under cfg: missing cells become null and row-wise tables
// become lists of structs. Numbers are doubles, so 64-bit integers beyond
// 2^53 lose precision.
func ToStructpb(v models.Value, cfg config.SerializeConfig, log logging.Logger) (*structpb.Value, error) {
	doc, err := generator.NewGenerator(cfg, log).Generate(v)
	if err != nil {
		return nil, err
	}
	defer doc.Release()
	return nodeToStructpb(doc.Root)
}

// MarshalProto returns the protobuf wire encoding of ToStructpb(v).
func MarshalProto(v models.Value, cfg config.SerializeConfig, log logging.Logger) ([]byte, error) {
	pb, err := ToStructpb(v, cfg, log)
	if err != nil {
		return nil, err
	}
	b, err := proto.Marshal(pb)
	if err != nil {
		return nil, errors.NewSerializeError("failed to encode protobuf", err)
	}
	return b, nil
}

func nodeToStructpb(n *models.Node) (*structpb.Value, error) {
	switch n.Type() {
	case models.NodeNull:
		return structpb.NewNullValue(), nil
	case models.NodeBool:
		return structpb.NewBoolValue(n.Bool()), nil
	case models.NodeNumber:
		return structpb.NewNumberValue(n.Float()), nil
	case models.NodeString:
		return structpb.NewStringValue(n.Str()), nil
	case models.NodeArray:
		list := &structpb.ListValue{Values: make([]*structpb.Value, 0, n.Len())}
		for _, e := range n.Elems() {
			pv, err := nodeToStructpb(e)
			if err != nil {
				return nil, err
			}
			list.Values = append(list.Values, pv)
		}
		return structpb.NewListValue(list), nil
	case models.NodeObject:
		obj := &structpb.Struct{Fields: make(map[string]*structpb.Value, n.Len())}
		// later duplicates overwrite earlier ones, matching Get
		for _, m := range n.Members() {
			pv, err := nodeToStructpb(m.Value)
			if err != nil {
				return nil, err
			}
			obj.Fields[m.Key] = pv
		}
		return structpb.NewStructValue(obj), nil
	case models.NodeRaw:
		var native any
		if err := gojson.Unmarshal([]byte(n.Str()), &native); err != nil {
			return nil, errors.NewSerializeError("verbatim JSON cell is not valid JSON", err)
		}
		pv, err := structpb.NewValue(native)
		if err != nil {
			return nil, errors.NewSerializeError("cannot convert verbatim JSON cell", err)
		}
		return pv, nil
	}
	return nil, errors.NewSerializeError("unknown node type "+n.Type().String(), nil)
}
