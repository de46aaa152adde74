package reports

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/chararch/batchstat"
)

// FileStore destination of exported status reports
type FileStore interface {
	Create(fileName string) (io.WriteCloser, batchstat.BatchError)
}

// NewLocalFileStore a FileStore writing under dir
func NewLocalFileStore(dir string) FileStore {
	return &localFileStore{dir: dir}
}

type localFileStore struct {
	dir string
}

func (s *localFileStore) Create(fileName string) (io.WriteCloser, batchstat.BatchError) {
	path := filepath.Join(s.dir, fileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeGeneral, "create report dir for:%v err", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeGeneral, "create report file:%v err", path, err)
	}
	return f, nil
}

// NewFtpFileStore a FileStore uploading to an ftp server
func NewFtpFileStore(addr, user, password string, timeout time.Duration) FileStore {
	return &ftpFileStore{addr: addr, user: user, password: password, timeout: timeout}
}

type ftpFileStore struct {
	addr     string
	user     string
	password string
	timeout  time.Duration
}

func (s *ftpFileStore) Create(fileName string) (io.WriteCloser, batchstat.BatchError) {
	conn, err := ftp.Dial(s.addr, ftp.DialWithTimeout(s.timeout))
	if err != nil {
		return nil, batchstat.NewBatchError(batchstat.ErrCodeGeneral, "dial ftp server:%v err", s.addr, err)
	}
	if err := conn.Login(s.user, s.password); err != nil {
		_ = conn.Quit()
		return nil, batchstat.NewBatchError(batchstat.ErrCodeGeneral, "login ftp server:%v err", s.addr, err)
	}
	pr, pw := io.Pipe()
	file := &ftpFile{conn: conn, pw: pw, done: make(chan error, 1)}
	go func() {
		file.done <- conn.Stor(fileName, pr)
		_ = pr.Close()
	}()
	return file, nil
}

type ftpFile struct {
	conn *ftp.ServerConn
	pw   *io.PipeWriter
	done chan error
}

func (f *ftpFile) Write(p []byte) (int, error) {
	return f.pw.Write(p)
}

func (f *ftpFile) Close() error {
	if err := f.pw.Close(); err != nil {
		_ = f.conn.Quit()
		return err
	}
	err := <-f.done
	if er := f.conn.Quit(); err == nil {
		err = er
	}
	return err
}
