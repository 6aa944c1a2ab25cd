package contracts

import "context"

type StorageService interface {
	ArchiveRawPayload(ctx context.Context, objectName string, payload []byte) error
}
