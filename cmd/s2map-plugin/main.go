package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redpanda-data/benthos/v4/public/service"

	"github.com/twinfer/s2map-plugin/pkg/s2map"

	_ "github.com/redpanda-data/benthos/v4/public/components/io"
	_ "github.com/redpanda-data/benthos/v4/public/components/pure"
)

// HeaderProcessor is a Benthos processor that converts StarCraft II
// documentheader records between their binary form and structured messages.
type HeaderProcessor struct {
	operation   string
	extraDeps   []string
	logger      *service.Logger
	mParsed     *service.MetricCounter
	mSerialized *service.MetricCounter
	mErrors     *service.MetricCounter
}

func init() {
	err := service.RegisterProcessor(
		"s2map",
		headerProcessorConfig(),
		func(conf *service.ParsedConfig, mgr *service.Resources) (service.Processor, error) {
			return newHeaderProcessorFromConfig(conf, mgr)
		},
	)
	if err != nil {
		panic(err)
	}
}

// headerProcessorConfig returns the config spec for the s2map processor.
func headerProcessorConfig() *service.ConfigSpec {
	return service.NewConfigSpec().
		Summary("Parses StarCraft II map documentheader records to structured data, or serializes them back to binary.").
		Description("With `operation: parse` the message payload is treated as raw documentheader bytes and replaced with a structured record. With `operation: serialize` a structured record is encoded back to the exact binary layout, optionally appending dependency entries first.").
		Field(service.NewStringEnumField("operation", "parse", "serialize").
			Description("Whether to parse binary headers or serialize structured ones.").
			Default("parse")).
		Field(service.NewStringListField("add_dependencies").
			Description("Dependency URIs appended to the header before serializing. Ignored when parsing.").
			Default([]string{}).
			Example([]string{"bnet:Swarm Story (Campaign)/0.0/999"})).
		Version("0.1.0")
}

func newHeaderProcessorFromConfig(conf *service.ParsedConfig, mgr *service.Resources) (*HeaderProcessor, error) {
	operation, err := conf.FieldString("operation")
	if err != nil {
		return nil, err
	}
	extraDeps, err := conf.FieldStringList("add_dependencies")
	if err != nil {
		return nil, err
	}

	metrics := mgr.Metrics()
	return &HeaderProcessor{
		operation:   operation,
		extraDeps:   extraDeps,
		logger:      mgr.Logger(),
		mParsed:     metrics.NewCounter("s2map_parsed_messages"),
		mSerialized: metrics.NewCounter("s2map_serialized_messages"),
		mErrors:     metrics.NewCounter("s2map_processing_errors"),
	}, nil
}

// Process converts one message according to the configured operation.
func (p *HeaderProcessor) Process(ctx context.Context, msg *service.Message) (service.MessageBatch, error) {
	if p.operation == "serialize" {
		return p.serializeHeader(msg)
	}
	return p.parseHeader(msg)
}

// parseHeader decodes the message bytes into a structured header record.
func (p *HeaderProcessor) parseHeader(msg *service.Message) (service.MessageBatch, error) {
	data, err := msg.AsBytes()
	if err != nil {
		return p.fail(msg, fmt.Errorf("reading message bytes: %w", err))
	}
	if len(data) == 0 {
		return p.fail(msg, fmt.Errorf("empty message payload"))
	}

	header, err := s2map.DecodeHeader(data)
	if err != nil {
		return p.fail(msg, err)
	}

	p.logger.Debugf("Parsed %d byte document header with %d dependencies", len(data), len(header.Dependencies))
	p.mParsed.Incr(1)

	newMsg := msg.Copy()
	newMsg.SetStructured(headerToMap(header))
	newMsg.MetaSet("s2map_dependency_count", strconv.Itoa(len(header.Dependencies)))
	return service.MessageBatch{newMsg}, nil
}

// serializeHeader encodes a structured header record back to binary,
// appending any configured dependencies first.
func (p *HeaderProcessor) serializeHeader(msg *service.Message) (service.MessageBatch, error) {
	structured, err := msg.AsStructured()
	if err != nil {
		return p.fail(msg, fmt.Errorf("reading structured message: %w", err))
	}

	header, err := headerFromStructured(structured)
	if err != nil {
		return p.fail(msg, err)
	}
	if len(p.extraDeps) > 0 {
		header.AddDependencies(p.extraDeps...)
	}

	data, err := s2map.EncodeHeader(header)
	if err != nil {
		return p.fail(msg, err)
	}

	p.logger.Debugf("Serialized document header to %d bytes", len(data))
	p.mSerialized.Incr(1)

	newMsg := msg.Copy()
	newMsg.SetBytes(data)
	newMsg.MetaSet("s2map_dependency_count", strconv.Itoa(len(header.Dependencies)))
	return service.MessageBatch{newMsg}, nil
}

func (p *HeaderProcessor) fail(msg *service.Message, err error) (service.MessageBatch, error) {
	p.logger.Errorf("s2map processing failed: %v", err)
	p.mErrors.Incr(1)
	msg.SetError(err)
	return service.MessageBatch{msg}, nil
}

// headerToMap renders a header through its JSON form so the structured
// message uses plain maps, lists and strings.
func headerToMap(h *s2map.DocumentHeader) map[string]any {
	raw, _ := json.Marshal(h)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return out
}

// headerFromStructured is the inverse of headerToMap.
func headerFromStructured(v any) (*s2map.DocumentHeader, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("reading structured header: %w", err)
	}
	var h s2map.DocumentHeader
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("reading structured header: %w", err)
	}
	return &h, nil
}

// Close implements service.Processor; the processor holds no resources.
func (p *HeaderProcessor) Close(ctx context.Context) error {
	return nil
}

func main() {
	service.RunCLI(context.Background())
}
