package wallet

// Seed stores a wallet in a memory repository, replacing any existing wallet
// for the same user. It is a no-op for other repository implementations.
func Seed(repo Repository, w Wallet) {
	mem, ok := repo.(*memoryRepository)
	if !ok {
		return
	}
	mem.mu.Lock()
	defer mem.mu.Unlock()
	mem.byUserID[w.UserID] = cloneWallet(w)
}
