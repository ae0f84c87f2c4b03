package model_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.yaml.in/yaml/v3"

	"github.com/skaphos/pendector/internal/model"
)

var _ = Describe("RepositoryHandle", func() {
	It("uses the final path segment as the name", func() {
		h := model.NewRepositoryHandle("/work/repo-a")
		Expect(h.Name).To(Equal("repo-a"))
		Expect(h.Path).To(Equal(filepath.Clean("/work/repo-a")))
	})

	It("ignores a trailing separator", func() {
		Expect(model.NewRepositoryHandle("/work/repo-b/").Name).To(Equal("repo-b"))
	})

	It("resolves the working directory name for '.'", func() {
		dir := GinkgoT().TempDir()
		prev, err := os.Getwd()
		Expect(err).NotTo(HaveOccurred())
		Expect(os.Chdir(dir)).To(Succeed())
		DeferCleanup(func() { _ = os.Chdir(prev) })

		resolved, err := filepath.EvalSymlinks(dir)
		Expect(err).NotTo(HaveOccurred())
		h := model.NewRepositoryHandle(".")
		Expect(h.Name).To(Equal(filepath.Base(resolved)))
		Expect(filepath.IsAbs(h.Path)).To(BeTrue())
	})
})

var _ = Describe("ChangeKind", func() {
	DescribeTable("markers",
		func(kind model.ChangeKind, marker string) {
			Expect(kind.Marker()).To(Equal(marker))
		},
		Entry("added", model.ChangeAdded, "??"),
		Entry("modified", model.ChangeModified, " M"),
		Entry("deleted", model.ChangeDeleted, " D"),
		Entry("renamed", model.ChangeRenamed, " R"),
		Entry("other", model.ChangeOther, "  "),
	)
})

var _ = Describe("Report encoding", func() {
	report := model.RepositoryReport{
		RepositoryHandle: model.RepositoryHandle{Path: "/work/b", Name: "b"},
		WorkingTreeStatus: model.WorkingTreeStatus{
			HasChanges:    true,
			ChangedFiles:  []model.ChangedFile{{Kind: model.ChangeAdded, Path: "x.txt"}},
			CurrentBranch: model.StringPtr("main"),
		},
		SyncState: model.SyncState{RemoteBranch: model.StringPtr("origin/main"), NeedsPush: true},
	}

	It("flattens the embedded sections in JSON", func() {
		data, err := json.Marshal(report)
		Expect(err).NotTo(HaveOccurred())

		var fields map[string]any
		Expect(json.Unmarshal(data, &fields)).To(Succeed())
		Expect(fields).To(HaveKeyWithValue("name", "b"))
		Expect(fields).To(HaveKeyWithValue("has_changes", true))
		Expect(fields).To(HaveKeyWithValue("current_branch", "main"))
		Expect(fields).To(HaveKeyWithValue("remote_branch", "origin/main"))
		Expect(fields).To(HaveKeyWithValue("needs_push", true))
		Expect(fields).NotTo(HaveKey("detached"))
	})

	It("encodes absent branches as null", func() {
		data, err := json.Marshal(model.RepositoryReport{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"current_branch":null`))
		Expect(string(data)).To(ContainSubstring(`"remote_branch":null`))
	})

	It("flattens the embedded sections in YAML", func() {
		data, err := yaml.Marshal(model.ScanReport{
			GeneratedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			Repositories: []model.RepositoryReport{report},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring("name: b"))
		Expect(string(data)).To(ContainSubstring("remote_branch: origin/main"))
		Expect(string(data)).To(ContainSubstring("kind: added"))
	})
})

var _ = Describe("ScanReport", func() {
	It("counts repositories with changes", func() {
		r := model.ScanReport{Repositories: []model.RepositoryReport{
			{WorkingTreeStatus: model.WorkingTreeStatus{HasChanges: true}},
			{},
			{WorkingTreeStatus: model.WorkingTreeStatus{HasChanges: true}},
		}}
		Expect(r.ChangedCount()).To(Equal(2))
	})

	It("reports divergence only when both flags are set", func() {
		Expect(model.SyncState{NeedsPull: true}.Diverged()).To(BeFalse())
		Expect(model.SyncState{NeedsPull: true, NeedsPush: true}.Diverged()).To(BeTrue())
	})
})
