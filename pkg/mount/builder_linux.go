package mount

// Mount performs every mount in order, stopping at the first failure
func (b *Builder) Mount() error {
	for i := range b.Mounts {
		if err := b.Mounts[i].Mount(); err != nil {
			return err
		}
	}
	return nil
}
