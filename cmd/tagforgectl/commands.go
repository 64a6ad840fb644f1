package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jimyag/tagforge/internal/tagforge/entity"
	"github.com/jimyag/tagforge/internal/tagforge/tagset"
)

const exportDateLayout = "2006-01-02T15:04:05.000Z"

func load(path string) (*tagset.ParsedSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	parsed, err := tagset.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return parsed, nil
}

type ValidateCmd struct {
	File      string `arg:"" type:"existingfile" help:"Config file exported from tagforge."`
	Anonymous bool   `help:"Check as a user who is not logged in."`
}

func (c *ValidateCmd) Run(ctx *Context) error {
	parsed, err := load(c.File)
	if err != nil {
		return err
	}
	if parsed.DroppedTags > 0 || parsed.DroppedValues > 0 {
		fmt.Fprintf(ctx.Out, "dropped %d tags, %d values\n", parsed.DroppedTags, parsed.DroppedValues)
	}
	if verr := tagset.Validate(parsed.Tags, parsed.VariableValues, !c.Anonymous); verr != nil {
		return verr
	}
	fmt.Fprintf(ctx.Out, "ok: %d tags, %d images\n",
		len(parsed.Tags), tagset.TotalImages(parsed.Tags, parsed.VariableValues))
	return nil
}

type CountCmd struct {
	File string `arg:"" type:"existingfile" help:"Config file exported from tagforge."`
}

func (c *CountCmd) Run(ctx *Context) error {
	parsed, err := load(c.File)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, tagset.TotalImages(parsed.Tags, parsed.VariableValues))
	return nil
}

type ExpandCmd struct {
	File  string `arg:"" type:"existingfile" help:"Config file exported from tagforge."`
	Limit int    `help:"Maximum number of combinations, 0 for all." default:"0"`
}

func (c *ExpandCmd) Run(ctx *Context) error {
	parsed, err := load(c.File)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(ctx.Out)
	enc.SetEscapeHTML(false)
	for _, combo := range tagset.Expand(parsed.Tags, parsed.VariableValues, c.Limit) {
		if err := enc.Encode(combo); err != nil {
			return err
		}
	}
	return nil
}

type NormalizeCmd struct {
	File   string `arg:"" type:"existingfile" help:"Config file exported from tagforge."`
	Output string `short:"o" help:"Write to this file instead of stdout." type:"path"`
}

func (c *NormalizeCmd) Run(ctx *Context) error {
	parsed, err := load(c.File)
	if err != nil {
		return err
	}
	state := entity.WorkspaceState{
		Tags:           parsed.Tags,
		VariableValues: parsed.VariableValues,
		GlobalSettings: parsed.Settings.Merge(entity.DefaultGlobalSettings()),
	}
	data, err := json.MarshalIndent(tagset.Snapshot(state, ctx.Now().UTC().Format(exportDateLayout)), "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if c.Output == "" {
		_, err = ctx.Out.Write(data)
		return err
	}
	return os.WriteFile(c.Output, data, 0o644)
}
