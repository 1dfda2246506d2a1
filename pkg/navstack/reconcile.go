package navstack

// listen applies host-originated pops for the lifetime of the Service.
// A closed signal channel is treated as "no more signals of that kind".
func (s *Service) listen(pagePopped <-chan PoppedPage, modalPopped <-chan struct{}) {
	defer close(s.done)

	for {
		select {
		case <-s.quit:
			return

		case sig, ok := <-pagePopped:
			if !ok {
				pagePopped = nil
				continue
			}
			s.reconcilePage(sig)

		case _, ok := <-modalPopped:
			if !ok {
				modalPopped = nil
				continue
			}
			s.reconcileModal()
		}
	}
}

// reconcilePage drops the top of the active page stack. The host already
// removed the page, so no host call is made.
func (s *Service) reconcilePage(sig PoppedPage) {
	s.mu.Lock()
	active := s.Active()
	if active.Kind == NoStack {
		s.mu.Unlock()
		s.reportDesync(newStackError(OpReconcilePage, ErrEmptyStackPop))
		return
	}

	removed, err := active.stack.Pop()
	s.mu.Unlock()

	if err != nil {
		s.reportDesync(newStackError(OpReconcilePage, ErrEmptyStackPop))
		return
	}

	if sig.Page != nil && sig.Page != removed {
		s.logger.Warn("host popped a page other than the model's top",
			"host_title", sig.Page.String(),
			"model_title", removed.String())
	}

	s.logger.Debug("removed page from stack",
		"title", removed.String(),
		"stack", active.Kind.String(),
		"source", "host")
}

// reconcileModal drops the top of the modal stack.
func (s *Service) reconcileModal() {
	s.mu.Lock()
	removed, err := s.modals.Pop()
	s.mu.Unlock()

	if err != nil {
		s.reportDesync(newStackError(OpReconcileModal, ErrEmptyStackPop))
		return
	}

	s.logger.Debug("removed modal from stack",
		"title", removed.Title(),
		"depth", s.modals.Len(),
		"source", "host")
}
