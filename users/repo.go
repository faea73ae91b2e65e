package users

import "context"

type Repo interface {
	Upsert(ctx context.Context, credential *Credential) error
	Delete(ctx context.Context, username string) error
	Get(ctx context.Context, username string) (*Credential, error)
	List(ctx context.Context, offset, limit int) ([]*Credential, error)
}
