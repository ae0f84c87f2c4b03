package vcs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/skaphos/pendector/internal/gitx"
	"github.com/skaphos/pendector/internal/model"
	"github.com/skaphos/pendector/internal/vcs"
)

var _ = Describe("Reader", func() {
	var (
		ctx  context.Context
		root string
	)

	BeforeEach(func() {
		ctx = context.Background()
		root = GinkgoT().TempDir()
	})

	It("distinguishes a clean repository from one with an untracked file", func() {
		a := filepath.Join(root, "work", "a")
		b := filepath.Join(root, "work", "b")
		initRepo(a)
		initRepo(b)
		writeFile(filepath.Join(b, "x.txt"), "new\n")

		reader := vcs.NewReader(nil, "")

		clean, err := reader.Read(ctx, a, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(clean.Name).To(Equal("a"))
		Expect(clean.Path).To(Equal(a))
		Expect(clean.HasChanges).To(BeFalse())
		Expect(clean.ChangedFiles).To(BeEmpty())
		Expect(clean.CurrentBranch).To(HaveValue(Equal("main")))
		Expect(clean.RemoteBranch).To(BeNil())
		Expect(clean.NeedsPull).To(BeFalse())
		Expect(clean.NeedsPush).To(BeFalse())

		dirty, err := reader.Read(ctx, b, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(dirty.Name).To(Equal("b"))
		Expect(dirty.HasChanges).To(BeTrue())
		Expect(dirty.ChangedFiles).To(Equal([]model.ChangedFile{{Kind: model.ChangeAdded, Path: "x.txt"}}))
		Expect(dirty.CurrentBranch).To(HaveValue(Equal("main")))
	})

	It("classifies and orders modified, deleted and staged files", func() {
		repo := filepath.Join(root, "repo")
		initRepo(repo)
		commitFile(repo, "gone.txt", "bye\n")
		writeFile(filepath.Join(repo, "README.md"), "changed\n")
		Expect(os.Remove(filepath.Join(repo, "gone.txt"))).To(Succeed())
		writeFile(filepath.Join(repo, "staged.txt"), "s\n")
		runGit(repo, "add", "staged.txt")

		report, err := vcs.NewReader(nil, "").Read(ctx, repo, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.ChangedFiles).To(Equal([]model.ChangedFile{
			{Kind: model.ChangeModified, Path: "README.md"},
			{Kind: model.ChangeDeleted, Path: "gone.txt"},
			{Kind: model.ChangeAdded, Path: "staged.txt"},
		}))
	})

	It("ignores files matched by .gitignore", func() {
		repo := filepath.Join(root, "repo")
		initRepo(repo)
		commitFile(repo, ".gitignore", "*.log\n")
		writeFile(filepath.Join(repo, "debug.log"), "noise\n")

		report, err := vcs.NewReader(nil, "").Read(ctx, repo, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.HasChanges).To(BeFalse())
	})

	Context("with ignore rules outside the repository", func() {
		var home string

		BeforeEach(func() {
			home = GinkgoT().TempDir()
			GinkgoT().Setenv("HOME", home)
			GinkgoT().Setenv("XDG_CONFIG_HOME", "")
		})

		It("honors core.excludesfile from the user's gitconfig", func() {
			ignore := filepath.Join(home, "global-ignore")
			writeFile(ignore, "# editor files\n*.swp\n")
			writeFile(filepath.Join(home, ".gitconfig"), "[core]\n\texcludesfile = "+ignore+"\n")
			repo := filepath.Join(root, "repo")
			initRepo(repo)
			writeFile(filepath.Join(repo, ".README.md.swp"), "swap\n")
			Expect(runGit(repo, "status", "--porcelain")).To(BeEmpty())

			report, err := vcs.NewReader(nil, "").Read(ctx, repo, vcs.ReadOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(report.HasChanges).To(BeFalse())
			Expect(report.ChangedFiles).To(BeEmpty())
		})

		It("falls back to the XDG git ignore file", func() {
			xdg := filepath.Join(home, "xdg")
			GinkgoT().Setenv("XDG_CONFIG_HOME", xdg)
			writeFile(filepath.Join(xdg, "git", "ignore"), ".DS_Store\n")
			repo := filepath.Join(root, "repo")
			initRepo(repo)
			writeFile(filepath.Join(repo, ".DS_Store"), "x")
			writeFile(filepath.Join(repo, "notes.txt"), "todo\n")
			Expect(runGit(repo, "status", "--porcelain")).To(Equal("?? notes.txt"))

			report, err := vcs.NewReader(nil, "").Read(ctx, repo, vcs.ReadOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(report.ChangedFiles).To(Equal([]model.ChangedFile{{Kind: model.ChangeAdded, Path: "notes.txt"}}))
		})
	})

	It("reports an unborn HEAD with no branch", func() {
		repo := filepath.Join(root, "empty")
		Expect(os.MkdirAll(repo, 0o755)).To(Succeed())
		runGit(repo, "init", "-q", "-b", "main")

		report, err := vcs.NewReader(nil, "").Read(ctx, repo, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.CurrentBranch).To(BeNil())
		Expect(report.RemoteBranch).To(BeNil())
		Expect(report.HasChanges).To(BeFalse())
	})

	It("reports a detached HEAD by short commit id without sync state", func() {
		_, clone := cloneWithRemote(root)
		sha := runGit(clone, "rev-parse", "HEAD")
		runGit(clone, "checkout", "-q", "--detach", "HEAD")

		report, err := vcs.NewReader(nil, "").Read(ctx, clone, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.Detached).To(BeTrue())
		Expect(report.CurrentBranch).To(HaveValue(Equal(sha[:7])))
		Expect(report.RemoteBranch).To(BeNil())
	})

	It("matches origin/main after fetching an up-to-date clone", func() {
		_, clone := cloneWithRemote(root)

		report, err := vcs.NewReader(nil, "").Read(ctx, clone, vcs.ReadOptions{Fetch: true, FetchTimeout: 30 * time.Second})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.RemoteBranch).To(HaveValue(Equal("origin/main")))
		Expect(report.NeedsPull).To(BeFalse())
		Expect(report.NeedsPush).To(BeFalse())
	})

	It("sees upstream commits only after fetching", func() {
		remote, clone := cloneWithRemote(root)
		other := filepath.Join(root, "other")
		runGit(root, "clone", "-q", remote, other)
		commitFile(other, "upstream.txt", "u\n")
		runGit(other, "push", "-q", "origin", "main")

		reader := vcs.NewReader(nil, "")
		stale, err := reader.Read(ctx, clone, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(stale.NeedsPull).To(BeFalse())

		fresh, err := reader.Read(ctx, clone, vcs.ReadOptions{Fetch: true, FetchTimeout: 30 * time.Second})
		Expect(err).NotTo(HaveOccurred())
		Expect(fresh.NeedsPull).To(BeTrue())
		Expect(fresh.NeedsPush).To(BeFalse())
	})

	It("reports local-only commits as needing a push", func() {
		_, clone := cloneWithRemote(root)
		commitFile(clone, "local.txt", "l\n")

		report, err := vcs.NewReader(nil, "").Read(ctx, clone, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.NeedsPull).To(BeFalse())
		Expect(report.NeedsPush).To(BeTrue())
	})

	It("reports divergence when both sides have unique commits", func() {
		remote, clone := cloneWithRemote(root)
		other := filepath.Join(root, "other")
		runGit(root, "clone", "-q", remote, other)
		commitFile(other, "upstream.txt", "u\n")
		runGit(other, "push", "-q", "origin", "main")
		commitFile(clone, "local.txt", "l\n")
		runGit(clone, "fetch", "-q", "origin")

		report, err := vcs.NewReader(nil, "").Read(ctx, clone, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.SyncState.Diverged()).To(BeTrue())
	})

	It("compares against a configured remote name", func() {
		_, clone := cloneWithRemote(root)
		runGit(clone, "remote", "rename", "origin", "upstream")

		withOrigin, err := vcs.NewReader(nil, "").Read(ctx, clone, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(withOrigin.RemoteBranch).To(BeNil())

		withUpstream, err := vcs.NewReader(nil, "upstream").Read(ctx, clone, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(withUpstream.RemoteBranch).To(HaveValue(Equal("upstream/main")))
	})

	It("keeps reading when the fetch fails", func() {
		repo := filepath.Join(root, "repo")
		initRepo(repo)
		fetcher := &recordingFetcher{outcome: model.FetchOutcome{
			Kind:    model.KindNetworkError,
			Message: "Could not resolve host",
			Err:     errors.New("network error"),
		}}

		report, err := vcs.NewReader(fetcher, "").Read(ctx, repo, vcs.ReadOptions{Fetch: true, FetchTimeout: time.Second})
		Expect(err).NotTo(HaveOccurred())
		Expect(fetcher.calls).To(Equal([]string{repo}))
		Expect(report.CurrentBranch).To(HaveValue(Equal("main")))
	})

	It("does not fetch unless asked", func() {
		repo := filepath.Join(root, "repo")
		initRepo(repo)
		fetcher := &recordingFetcher{outcome: model.FetchOutcome{Success: true}}

		_, err := vcs.NewReader(fetcher, "").Read(ctx, repo, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(fetcher.calls).To(BeEmpty())
	})

	It("reports a bare repository as clean", func() {
		remote, _ := cloneWithRemote(root)

		report, err := vcs.NewReader(nil, "").Read(ctx, remote, vcs.ReadOptions{})
		Expect(err).NotTo(HaveOccurred())
		Expect(report.HasChanges).To(BeFalse())
		Expect(report.CurrentBranch).To(HaveValue(Equal("main")))
	})

	DescribeTable("non-repository paths",
		func(setup func(string) string) {
			path := setup(root)
			_, err := vcs.NewReader(nil, "").Read(ctx, path, vcs.ReadOptions{})
			Expect(errors.Is(err, gitx.ErrRepositoryNotFound)).To(BeTrue())

			var notFound *gitx.RepositoryNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
		},
		Entry("plain directory", func(root string) string {
			dir := filepath.Join(root, "plain")
			Expect(os.MkdirAll(dir, 0o755)).To(Succeed())
			return dir
		}),
		Entry("missing directory", func(root string) string {
			return filepath.Join(root, "missing")
		}),
		Entry("subdirectory of a repository", func(root string) string {
			repo := filepath.Join(root, "repo")
			initRepo(repo)
			sub := filepath.Join(repo, "sub")
			Expect(os.MkdirAll(sub, 0o755)).To(Succeed())
			return sub
		}),
	)
})
