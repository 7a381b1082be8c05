package fs

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ncw/directio"
)

const blockSize = directio.BlockSize

// copyContentDirect streams sourcePath into targetPath using O_DIRECT
// aligned-block reads, bypassing the page cache so a bulk copy does not
// evict hot data. Falls back to buffered I/O when the filesystem rejects the
// direct open.
func (o *FileOps) copyContentDirect(ctx context.Context, sourcePath, targetPath string) error {
	sourceFile, err := directio.OpenFile(sourcePath, os.O_RDONLY, 0)
	if err != nil {
		return o.copyContent(ctx, sourcePath, targetPath)
	}
	defer sourceFile.Close()

	targetFile, err := o.fileIO.Create(ctx, targetPath)
	if err != nil {
		return fmt.Errorf("error creating target file: %w", err)
	}
	block := directio.AlignedBlock(blockSize)
	for {
		n, rerr := sourceFile.Read(block)
		if n > 0 {
			if _, werr := targetFile.Write(block[:n]); werr != nil {
				targetFile.Close()
				return fmt.Errorf("error writing file content: %w", werr)
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			targetFile.Close()
			return fmt.Errorf("error reading file content: %w", rerr)
		}
	}
	if err := targetFile.Sync(); err != nil {
		targetFile.Close()
		return fmt.Errorf("error syncing target file: %w", err)
	}
	return targetFile.Close()
}
