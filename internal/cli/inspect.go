package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/helmlens/internal/k8s"
	"github.com/hupe1980/helmlens/internal/metadata"
)

type inspectOptions struct {
	format string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Inspect release output and resolved metadata",
		Long: `Inspect helm release output: parse it, resolve release metadata,
and display the release context, resource table, and metadata summary.

Images carrying a mutable tag (latest, branch names, no tag) are flagged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "output", "o", "table", "output format: table, json, yaml")

	return cmd
}

// inspectResult is the structured output of the inspect command.
type inspectResult struct {
	Release   *releaseInfo     `json:"release,omitempty"`
	Resources []resourceInfo   `json:"resources"`
	Metadata  *metadata.Record `json:"metadata"`
	Images    []imageInfo      `json:"images,omitempty"`
}

type releaseInfo struct {
	Name         string `json:"name,omitempty"`
	Namespace    string `json:"namespace,omitempty"`
	LastDeployed string `json:"lastDeployed,omitempty"`
	Status       string `json:"status,omitempty"`
	Revision     string `json:"revision,omitempty"`
}

type resourceInfo struct {
	APIVersion string `json:"apiVersion"`
	Kind       string `json:"kind"`
	Name       string `json:"name,omitempty"`
	Namespace  string `json:"namespace,omitempty"`
}

type imageInfo struct {
	Image   string `json:"image"`
	Tag     string `json:"tag,omitempty"`
	Pinned  bool   `json:"pinned"`
	Mutable bool   `json:"mutable"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, path string, opts *inspectOptions) error {
	raw, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return &ExitError{Code: 1, Err: err}
	}

	res, err := runPipeline(ctx, raw)
	if err != nil {
		return err
	}

	result := buildInspectResult(res)

	w := cmd.OutOrStdout()

	switch opts.format {
	case "json":
		return renderJSON(w, result)
	case "yaml":
		return renderYAML(w, result)
	case "table":
		return renderTables(w, result)
	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("unknown format %q: expected table, json, yaml", opts.format)}
	}
}

func buildInspectResult(res *pipelineResult) inspectResult {
	result := inspectResult{Metadata: res.Metadata}

	if res.Release != nil {
		result.Release = &releaseInfo{
			Name:         res.Release.Name,
			Namespace:    res.Release.Namespace,
			LastDeployed: res.Release.LastDeployed,
			Status:       res.Release.Status,
			Revision:     res.Release.Revision,
		}
	}

	for _, r := range res.Resources {
		result.Resources = append(result.Resources, resourceInfo{
			APIVersion: r.APIVersion(),
			Kind:       r.Kind(),
			Name:       r.Name,
			Namespace:  r.Namespace,
		})
	}

	for _, image := range res.Metadata.Images {
		result.Images = append(result.Images, imageInfo{
			Image:   image,
			Tag:     k8s.ImageTag(image),
			Pinned:  k8s.IsPinnedImage(image),
			Mutable: k8s.HasLatestTag(image),
		})
	}

	return result
}

func renderJSON(w io.Writer, result inspectResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(result)
}

func renderYAML(w io.Writer, result inspectResult) error {
	data, err := sigsyaml.Marshal(result)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func renderTables(w io.Writer, result inspectResult) error {
	if result.Release != nil {
		printReleaseTable(w, result.Release)
	}

	printResourceTable(w, result.Resources)
	printMetadataTable(w, result.Metadata)
	printImageTable(w, result.Images)

	return nil
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateColumns = true
	t.SetTitle(title)

	return t
}

func printReleaseTable(w io.Writer, rel *releaseInfo) {
	t := newTable("RELEASE")
	t.AppendHeader(table.Row{"KEY", "VALUE"})

	rows := []struct{ key, value string }{
		{"NAME", rel.Name},
		{"NAMESPACE", rel.Namespace},
		{"LAST DEPLOYED", rel.LastDeployed},
		{"STATUS", rel.Status},
		{"REVISION", rel.Revision},
	}

	for _, r := range rows {
		if r.value != "" {
			t.AppendRow(table.Row{r.key, r.value})
		}
	}

	_, _ = fmt.Fprintln(w, t.Render())
}

func printResourceTable(w io.Writer, resources []resourceInfo) {
	t := newTable(fmt.Sprintf("RESOURCES (%d)", len(resources)))
	t.AppendHeader(table.Row{"KIND", "NAME", "NAMESPACE", "API VERSION"})

	for _, r := range resources {
		ns := r.Namespace
		if ns == "" {
			ns = "-"
		}

		t.AppendRow(table.Row{r.Kind, r.Name, ns, r.APIVersion})
	}

	_, _ = fmt.Fprintln(w, t.Render())
}

func printMetadataTable(w io.Writer, rec *metadata.Record) {
	t := newTable("METADATA")
	t.AppendHeader(table.Row{"KEY", "VALUE"})

	appendIfSet := func(key, value string) {
		if value != "" {
			t.AppendRow(table.Row{key, value})
		}
	}

	appendIfSet("REGION", rec.Region)
	appendIfSet("CLUSTER", rec.Cluster)
	appendIfSet("ACCOUNT ID", rec.AccountID)

	for _, svc := range rec.Services {
		t.AppendRow(table.Row{"SERVICE", fmt.Sprintf("%s (%s)", svc.Name, svc.Type)})
	}

	for _, rc := range rec.ReplicaCounts {
		t.AppendRow(table.Row{"REPLICAS", fmt.Sprintf("%s/%s: %d", rc.Kind, rc.Name, rc.Replicas)})
	}

	for _, ref := range rec.ConfigRefs {
		t.AppendRow(table.Row{"CONFIGMAP", ref})
	}

	for _, ref := range rec.SecretRefs {
		t.AppendRow(table.Row{"SECRET", ref})
	}

	for _, claim := range rec.VolumeClaims {
		t.AppendRow(table.Row{"VOLUME CLAIM", claim})
	}

	for _, sc := range rec.StorageClasses {
		t.AppendRow(table.Row{"STORAGE CLASS", sc})
	}

	for _, arn := range rec.ARNs {
		t.AppendRow(table.Row{"ARN", arn})
	}

	_, _ = fmt.Fprintln(w, t.Render())
}

func printImageTable(w io.Writer, images []imageInfo) {
	if len(images) == 0 {
		return
	}

	t := newTable("IMAGES")
	t.AppendHeader(table.Row{"IMAGE", "TAG", "PINNED"})

	for _, img := range images {
		tag := img.Tag
		if tag == "" {
			tag = "-"
		}

		pinned := "yes"
		if !img.Pinned {
			pinned = "no"
		}

		if img.Mutable {
			pinned = "no (mutable tag)"
		}

		t.AppendRow(table.Row{img.Image, tag, pinned})
	}

	_, _ = fmt.Fprintln(w, t.Render())
}
