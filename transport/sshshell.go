package transport

import (
	"archive/tar"
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kevinburke/ssh_config"
	"github.com/skeema/knownhosts"
	sshagent "github.com/xanzy/ssh-agent"
	"golang.org/x/crypto/ssh"

	"github.com/huge-vcs/huge/address"
	"github.com/huge-vcs/huge/content"
	"github.com/huge-vcs/huge/internal/layout"
	"github.com/huge-vcs/huge/internal/progress"
)

// SSH is a Transport to a peer repository reached over an in-process
// SSH connection, shelling out to plain POSIX utilities (ls, cat, tar,
// mkdir) on the remote end rather than a dedicated wire protocol —
// the same role the reference implementation gives its ssh/rsync
// subprocess calls, reimplemented as a persistent client per go-git's
// plumbing/transport/ssh pattern instead of one subprocess per call.
// Blob transfer batches digests (via the package's BatchSize/batches
// helper) and moves each batch as a single tar stream over one
// session, the same invocation-bounding the reference implementation
// gets from chunking its rsync argument list into groups of 500.
type SSH struct {
	client *ssh.Client
	root   string // remote repository root, e.g. /home/alice/repo
}

// DialSSH opens a connection to addr.Host, authenticating as
// addr.Login via the local SSH agent and verifying the server against
// the user's known_hosts file.
func DialSSH(addr address.Address) (*SSH, error) {
	host, port := resolveHostPort(addr.Host)

	agentAuth, err := agentAuthMethod()
	if err != nil {
		return nil, fmt.Errorf("connect to ssh-agent: %w", err)
	}

	hostKeyCallback, err := knownHostsCallback()
	if err != nil {
		return nil, fmt.Errorf("load known_hosts: %w", err)
	}

	config := &ssh.ClientConfig{
		User:            addr.Login,
		Auth:            []ssh.AuthMethod{agentAuth},
		HostKeyCallback: hostKeyCallback,
	}

	client, err := ssh.Dial("tcp", net.JoinHostPort(host, port), config)
	if err != nil {
		return nil, fmt.Errorf("dial %s@%s: %w", addr.Login, host, err)
	}

	return &SSH{client: client, root: addr.Path}, nil
}

func resolveHostPort(alias string) (host, port string) {
	host = ssh_config.Get(alias, "HostName")
	if host == "" {
		host = alias
	}
	port = ssh_config.Get(alias, "Port")
	if port == "" {
		port = "22"
	}
	return host, port
}

func agentAuthMethod() (ssh.AuthMethod, error) {
	agentClient, _, err := sshagent.New()
	if err != nil {
		return nil, err
	}
	return ssh.PublicKeysCallback(agentClient.Signers), nil
}

func knownHostsCallback() (ssh.HostKeyCallback, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	khPath := home + "/.ssh/known_hosts"
	db, err := knownhosts.NewDB(khPath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", khPath, err)
	}
	return db.HostKeyCallback(), nil
}

func (s *SSH) remotePath(parts ...string) string {
	return path.Join(append([]string{s.root, layout.HugeDir}, parts...)...)
}

// runCapture runs cmd on the remote host and returns its stdout.
func (s *SSH) runCapture(cmd string) ([]byte, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	defer session.Close()
	out, err := session.Output(cmd)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", cmd, err)
	}
	return out, nil
}

func (s *SSH) listDirNames(dir string) ([]string, error) {
	out, err := s.runCapture(fmt.Sprintf("ls -1 -a %s 2>/dev/null || true", shellQuote(dir)))
	if err != nil {
		return nil, err
	}
	var names []string
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" || name == "." || name == ".." {
			continue
		}
		names = append(names, name)
	}
	return names, scanner.Err()
}

func (s *SSH) CreateSkeleton() error {
	session, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()
	cmd := fmt.Sprintf("mkdir -p %s %s %s",
		shellQuote(s.remotePath("commits")),
		shellQuote(s.remotePath("storage")),
		shellQuote(s.remotePath("remotes")))
	if err := session.Run(cmd); err != nil {
		return fmt.Errorf("create remote skeleton: %w", err)
	}
	return nil
}

func (s *SSH) ListCommits() ([]string, error) { return s.listDirNames(s.remotePath("commits")) }
func (s *SSH) ListBlobs() ([]string, error)   { return s.listDirNames(s.remotePath("storage")) }
func (s *SSH) ListRemoteIDs() ([]string, error) {
	return s.listDirNames(s.remotePath("remotes"))
}

func (s *SSH) Identity() (string, error) {
	out, err := s.runCapture(fmt.Sprintf("cat %s", shellQuote(s.remotePath("id"))))
	if err != nil {
		return "", fmt.Errorf("read peer identity: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (s *SSH) SendIdentity(id string) error {
	return s.writeRemoteFile(s.remotePath("id"), strings.NewReader(id))
}

func (s *SSH) FetchRemoteEntry(id string, destRemotesDir string) error {
	names, err := s.listDirNames(s.remotePath("remotes", id))
	if err != nil {
		return err
	}
	for _, name := range names {
		r, err := s.readRemoteFile(s.remotePath("remotes", id, name))
		if err != nil {
			return fmt.Errorf("fetch remote entry %s file %s: %w", id, name, err)
		}
		err = writeLocalFile(localJoin(destRemotesDir, id, name), r)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SSH) SendRemoteEntry(id string, srcRemotesDir string) error {
	names, err := readLocalDirNames(localJoin(srcRemotesDir, id))
	if err != nil {
		return err
	}
	for _, name := range names {
		f, err := os.Open(localJoin(srcRemotesDir, id, name))
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		err = s.writeRemoteFile(s.remotePath("remotes", id, name), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("send remote entry %s file %s: %w", id, name, err)
		}
	}
	return nil
}

// readRemoteFile streams a single remote file's contents via cat.
func (s *SSH) readRemoteFile(remotePath string) (io.ReadCloser, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, err
	}
	if err := session.Start(fmt.Sprintf("cat %s", shellQuote(remotePath))); err != nil {
		session.Close()
		return nil, fmt.Errorf("start cat %s: %w", remotePath, err)
	}
	return &sessionReadCloser{session: session, r: stdout}, nil
}

type sessionReadCloser struct {
	session *ssh.Session
	r       io.Reader
}

func (s *sessionReadCloser) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *sessionReadCloser) Close() error {
	err := s.session.Wait()
	s.session.Close()
	return err
}

// writeRemoteFile streams r into a remote file via `mkdir -p` + `cat >`.
func (s *SSH) writeRemoteFile(remotePath string, r io.Reader) error {
	mkdirSession, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	err = mkdirSession.Run(fmt.Sprintf("mkdir -p %s", shellQuote(path.Dir(remotePath))))
	mkdirSession.Close()
	if err != nil {
		return fmt.Errorf("mkdir -p %s: %w", path.Dir(remotePath), err)
	}

	session, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return err
	}
	tmpPath := remotePath + ".tmp"
	if err := session.Start(fmt.Sprintf("cat > %s", shellQuote(tmpPath))); err != nil {
		return fmt.Errorf("start cat > %s: %w", tmpPath, err)
	}
	if _, err := io.Copy(stdin, r); err != nil {
		stdin.Close()
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	stdin.Close()
	if err := session.Wait(); err != nil {
		return fmt.Errorf("finish writing %s: %w", tmpPath, err)
	}

	renameSession, err := s.client.NewSession()
	if err != nil {
		return err
	}
	defer renameSession.Close()
	return renameSession.Run(fmt.Sprintf("mv %s %s", shellQuote(tmpPath), shellQuote(remotePath)))
}

func (s *SSH) FetchCommit(id string, destCommitsDir string) error {
	names, err := s.listDirNames(s.remotePath("commits", id))
	if err != nil {
		return err
	}
	for _, name := range names {
		r, err := s.readRemoteFile(s.remotePath("commits", id, name))
		if err != nil {
			return fmt.Errorf("fetch commit %s file %s: %w", id, name, err)
		}
		err = writeLocalFile(localJoin(destCommitsDir, id, name), r)
		r.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SSH) SendCommit(id string, srcCommitsDir string) error {
	names, err := readLocalDirNames(localJoin(srcCommitsDir, id))
	if err != nil {
		return err
	}
	for _, name := range names {
		f, err := os.Open(localJoin(srcCommitsDir, id, name))
		if err != nil {
			return fmt.Errorf("open %s: %w", name, err)
		}
		err = s.writeRemoteFile(s.remotePath("commits", id, name), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("send commit %s file %s: %w", id, name, err)
		}
	}
	return nil
}

// FetchBlobs transfers digests not already in store from the peer,
// batching up to BatchSize names per tar stream so a single large
// push/pull never opens more remote sessions than necessary.
func (s *SSH) FetchBlobs(digests []string, store *content.Store, reporter progress.Reporter) error {
	if reporter == nil {
		reporter = progress.NoOp{}
	}

	var needed []string
	for _, d := range digests {
		if !store.Contains(d) {
			needed = append(needed, d)
		}
	}

	done := 0
	for _, batch := range batches(needed) {
		if err := s.fetchBlobBatch(batch, store); err != nil {
			return err
		}
		done += len(batch)
		reporter.Transferring("fetch", done, len(needed))
	}
	reporter.Done()
	return nil
}

// fetchBlobBatch pulls a single batch of digests over one session,
// the remote end streaming them out as a tar archive rooted at its
// storage directory.
func (s *SSH) fetchBlobBatch(names []string, store *content.Store) error {
	session, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	stdout, err := session.StdoutPipe()
	if err != nil {
		return err
	}

	cmd := fmt.Sprintf("tar -cf - -C %s %s", shellQuote(s.remotePath("storage")), shellQuoteAll(names))
	if err := session.Start(cmd); err != nil {
		return fmt.Errorf("start %s: %w", cmd, err)
	}

	tr := tar.NewReader(stdout)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read blob batch: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		if err := store.InsertReader(tr, hdr.Name); err != nil {
			return fmt.Errorf("store blob %s: %w", hdr.Name, err)
		}
	}

	return session.Wait()
}

// SendBlobs transfers the set-difference between digests and what the
// peer already reports having, batching up to BatchSize names per tar
// stream per §4.10's invocation-bounding requirement.
func (s *SSH) SendBlobs(digests []string, store *content.Store, reporter progress.Reporter) error {
	if reporter == nil {
		reporter = progress.NoOp{}
	}

	peerBlobs, err := s.ListBlobs()
	if err != nil {
		return fmt.Errorf("list peer blobs: %w", err)
	}
	peerHas := make(map[string]struct{}, len(peerBlobs))
	for _, d := range peerBlobs {
		peerHas[d] = struct{}{}
	}

	var needed []string
	for _, d := range digests {
		if _, ok := peerHas[d]; !ok {
			needed = append(needed, d)
		}
	}

	done := 0
	for _, batch := range batches(needed) {
		if err := s.sendBlobBatch(batch, store); err != nil {
			return err
		}
		done += len(batch)
		reporter.Transferring("send", done, len(needed))
	}
	reporter.Done()
	return nil
}

// sendBlobBatch pushes a single batch of digests over one session, as
// a tar stream the remote end unpacks directly into its storage
// directory.
func (s *SSH) sendBlobBatch(names []string, store *content.Store) error {
	storageDir := s.remotePath("storage")

	session, err := s.client.NewSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	stdin, err := session.StdinPipe()
	if err != nil {
		return err
	}

	cmd := fmt.Sprintf("mkdir -p %s && tar -xf - -C %s", shellQuote(storageDir), shellQuote(storageDir))
	if err := session.Start(cmd); err != nil {
		return fmt.Errorf("start %s: %w", cmd, err)
	}

	tw := tar.NewWriter(stdin)
	for _, d := range names {
		if err := writeBlobToTar(tw, store, d); err != nil {
			stdin.Close()
			return err
		}
	}
	if err := tw.Close(); err != nil {
		stdin.Close()
		return fmt.Errorf("close tar stream: %w", err)
	}
	stdin.Close()

	return session.Wait()
}

func writeBlobToTar(tw *tar.Writer, store *content.Store, digest string) error {
	info, err := os.Stat(filepath.Join(store.Dir(), digest))
	if err != nil {
		return fmt.Errorf("stat local blob %s: %w", digest, err)
	}
	if err := tw.WriteHeader(&tar.Header{Name: digest, Mode: 0o644, Size: info.Size()}); err != nil {
		return fmt.Errorf("write tar header for %s: %w", digest, err)
	}
	f, err := store.Open(digest)
	if err != nil {
		return fmt.Errorf("open local blob %s: %w", digest, err)
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

// shellQuoteAll joins names into a space-separated, individually
// shell-quoted argument list for a remote command line.
func shellQuoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = shellQuote(n)
	}
	return strings.Join(quoted, " ")
}

func (s *SSH) Close() error { return s.client.Close() }

func writeLocalFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dirs for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	_, err = io.Copy(f, r)
	return err
}

func readLocalDirNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

func localJoin(parts ...string) string {
	return filepath.Join(parts...)
}

// shellQuote wraps a path in single quotes for safe inclusion in a
// remote shell command line, escaping any embedded single quote.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
